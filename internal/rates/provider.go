// Package rates fetches currency quote tables from the rates provider.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"expense-wallet/internal/models"
)

// DefaultURL is the all-rates endpoint of the provider.
const DefaultURL = "https://economia.awesomeapi.com.br/json/all"

// DefaultExcluded lists codes the provider returns that cannot be picked as
// an expense currency.
var DefaultExcluded = []string{"USDT"}

// ErrProvider is returned when a rates table cannot be obtained.
var ErrProvider = errors.New("rates provider error")

// Provider obtains rate snapshots. Every call is a fresh round trip.
type Provider interface {
	// FetchRates returns the full quote table keyed by currency code.
	FetchRates(ctx context.Context) (models.RateSnapshot, error)
	// FetchCurrencies returns the selectable codes in provider order.
	FetchCurrencies(ctx context.Context) ([]string, error)
}

// HTTPProvider implements Provider over a single HTTP GET.
type HTTPProvider struct {
	client   *http.Client
	url      string
	base     string
	excluded []string
	logger   *slog.Logger
}

// Option configures an HTTPProvider.
type Option func(*HTTPProvider)

// WithClient sets the HTTP client used for requests.
func WithClient(c *http.Client) Option {
	return func(p *HTTPProvider) { p.client = c }
}

// WithExcluded replaces the set of codes hidden from the currency list.
func WithExcluded(codes []string) Option {
	return func(p *HTTPProvider) {
		p.excluded = make([]string, 0, len(codes))
		for _, c := range codes {
			if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
				p.excluded = append(p.excluded, c)
			}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *HTTPProvider) { p.logger = l }
}

// NewHTTPProvider creates a provider for the all-rates endpoint at url,
// quoting against base.
func NewHTTPProvider(url, base string, opts ...Option) *HTTPProvider {
	p := &HTTPProvider{
		client:   http.DefaultClient,
		url:      url,
		base:     base,
		excluded: slices.Clone(DefaultExcluded),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchRates implements Provider.
func (p *HTTPProvider) FetchRates(ctx context.Context) (models.RateSnapshot, error) {
	_, snapshot, err := p.fetch(ctx)
	return snapshot, err
}

// FetchCurrencies implements Provider.
func (p *HTTPProvider) FetchCurrencies(ctx context.Context) ([]string, error) {
	codes, _, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Selectable(codes, p.base, p.excluded), nil
}

// Selectable filters codes down to those a user may record expenses in,
// keeping their order.
func Selectable(codes []string, base string, excluded []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c == base || slices.Contains(excluded, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// fetch performs the GET and decodes the quote table, remembering the
// order in which codes appear in the response.
func (p *HTTPProvider) fetch(ctx context.Context) ([]string, models.RateSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	p.logger.Debug("fetched rates", "url", p.url, "status", resp.Status)
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: cannot http GET %v: %v", ErrProvider, p.url, resp.Status)
	}

	codes, snapshot, err := decode(resp.Body, p.base)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return codes, snapshot, nil
}

func decode(r io.Reader, base string) ([]string, models.RateSnapshot, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("unexpected response start %v", tok)
	}

	var codes []string
	snapshot := make(models.RateSnapshot)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)

		var rate models.Rate
		if err := dec.Decode(&rate); err != nil {
			return nil, nil, fmt.Errorf("decode %s: %w", key, err)
		}
		code := normalize(key, base)
		if code == base {
			continue
		}
		if rate.Code == "" {
			rate.Code = code
		}
		if _, seen := snapshot[code]; !seen {
			codes = append(codes, code)
		}
		snapshot[code] = rate
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return codes, snapshot, nil
}

// normalize turns pair keys such as "USDBRL" into plain codes.
func normalize(key, base string) string {
	key = strings.ToUpper(key)
	if len(key) == 2*len(base) && strings.HasSuffix(key, base) {
		return key[:len(base)]
	}
	return key
}
