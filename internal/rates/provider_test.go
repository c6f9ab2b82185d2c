package rates

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"expense-wallet/internal/rates/ratestest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRates(t *testing.T) {
	srv := ratestest.NewServer()
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "BRL")
	snapshot, err := p.FetchRates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ratestest.Snapshot(), snapshot)
	assert.Equal(t, "5.58", snapshot["USD"].Ask)
	assert.Contains(t, snapshot, "USDT", "raw lookup must still cover excluded codes")
	assert.Equal(t, 1, srv.Calls())
}

func TestFetchRatesIsNotCached(t *testing.T) {
	srv := ratestest.NewServer()
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "BRL")
	for range 3 {
		_, err := p.FetchRates(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 3, srv.Calls())
}

func TestFetchCurrencies(t *testing.T) {
	srv := ratestest.NewServer()
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "BRL")
	codes, err := p.FetchCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ratestest.Currencies, codes)
}

func TestFetchCurrenciesCustomExclusions(t *testing.T) {
	srv := ratestest.NewServer()
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "BRL", WithExcluded([]string{" btc", "XRP", ""}))
	codes, err := p.FetchCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"USD", "USDT", "CAD", "EUR", "GBP", "ARS", "JPY", "CNY"}, codes)
}

func TestPairKeysAndBaseEntry(t *testing.T) {
	srv := ratestest.NewServer()
	defer srv.Close()
	srv.Respond(http.StatusOK, `{
		"USDBRL": {"codein": "BRL", "name": "Dólar Americano/Real Brasileiro", "ask": "5.58"},
		"BRLBRL": {"code": "BRL", "codein": "BRL", "name": "Real/Real", "ask": "1"},
		"EURBRL": {"code": "EUR", "codein": "BRL", "name": "Euro/Real Brasileiro", "ask": "6.5685"}
	}`)

	p := NewHTTPProvider(srv.URL, "BRL")
	snapshot, err := p.FetchRates(context.Background())
	require.NoError(t, err)
	assert.Len(t, snapshot, 2)
	assert.Equal(t, "USD", snapshot["USD"].Code)
	assert.NotContains(t, snapshot, "BRL")

	codes, err := p.FetchCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"USD", "EUR"}, codes)
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusServiceUnavailable, `{}`},
		{"not an object", http.StatusOK, `["USD"]`},
		{"truncated", http.StatusOK, `{"USD": {"ask": "5.58"`},
		{"bad entry", http.StatusOK, `{"USD": "5.58"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := ratestest.NewServer()
			defer srv.Close()
			srv.Respond(tt.status, tt.body)

			p := NewHTTPProvider(srv.URL, "BRL")
			_, err := p.FetchRates(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrProvider), "got %v", err)
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := ratestest.NewServer()
	url := srv.URL
	srv.Close()

	p := NewHTTPProvider(url, "BRL")
	_, err := p.FetchCurrencies(context.Background())
	require.ErrorIs(t, err, ErrProvider)
}

func TestSelectable(t *testing.T) {
	got := Selectable([]string{"BRL", "USD", "USDT", "EUR"}, "BRL", DefaultExcluded)
	assert.Equal(t, []string{"USD", "EUR"}, got)
	assert.Equal(t, "USD", normalize("usdbrl", "BRL"))
	assert.Equal(t, "USDT", normalize("USDT", "BRL"))
	assert.True(t, strings.HasPrefix(DefaultURL, "https://"))
}
