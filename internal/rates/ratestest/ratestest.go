// Package ratestest provides a canned rates table and a fake provider server
// for tests.
package ratestest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"expense-wallet/internal/models"
)

// Fixture is a provider response in the shape of the all-rates endpoint.
const Fixture = `{
  "USD": {"code": "USD", "codein": "BRL", "name": "Dólar Americano/Real Brasileiro", "high": "5.6", "low": "5.5", "bid": "5.5793", "ask": "5.58", "timestamp": "1634317200", "create_date": "2021-10-15 14:00:00"},
  "USDT": {"code": "USD", "codein": "BRLT", "name": "Dólar Americano/Real Brasileiro Turismo", "bid": "5.43", "ask": "5.77"},
  "CAD": {"code": "CAD", "codein": "BRL", "name": "Dólar Canadense/Real Brasileiro", "bid": "4.2023", "ask": "4.2041"},
  "EUR": {"code": "EUR", "codein": "BRL", "name": "Euro/Real Brasileiro", "bid": "6.5605", "ask": "6.5685"},
  "GBP": {"code": "GBP", "codein": "BRL", "name": "Libra Esterlina/Real Brasileiro", "bid": "7.6244", "ask": "7.6302"},
  "ARS": {"code": "ARS", "codein": "BRL", "name": "Peso Argentino/Real Brasileiro", "bid": "0.0597", "ask": "0.0598"},
  "BTC": {"code": "BTC", "codein": "BRL", "name": "Bitcoin/Real Brasileiro", "bid": "318204", "ask": "318502"},
  "JPY": {"code": "JPY", "codein": "BRL", "name": "Iene Japonês/Real Brasileiro", "bid": "0.04889", "ask": "0.04891"},
  "CNY": {"code": "CNY", "codein": "BRL", "name": "Yuan Chinês/Real Brasileiro", "bid": "0.8215", "ask": "0.8219"},
  "XRP": {"code": "XRP", "codein": "BRL", "name": "XRP/Real Brasileiro", "bid": "6.05", "ask": "6.07"}
}`

// Codes lists the fixture codes in response order.
var Codes = []string{"USD", "USDT", "CAD", "EUR", "GBP", "ARS", "BTC", "JPY", "CNY", "XRP"}

// Currencies lists the fixture codes a user may pick (USDT excluded).
var Currencies = []string{"USD", "CAD", "EUR", "GBP", "ARS", "BTC", "JPY", "CNY", "XRP"}

// Snapshot returns the fixture decoded into a snapshot.
func Snapshot() models.RateSnapshot {
	var s models.RateSnapshot
	if err := json.Unmarshal([]byte(Fixture), &s); err != nil {
		panic(err)
	}
	return s
}

// WithAsk returns a copy of s where code is quoted at ask.
func WithAsk(s models.RateSnapshot, code, ask string) models.RateSnapshot {
	c := s.Clone()
	r := c[code]
	r.Code = code
	r.Ask = ask
	c[code] = r
	return c
}

// Server is a fake rates provider.
type Server struct {
	*httptest.Server

	calls atomic.Int64

	mu     sync.Mutex
	body   string
	status int
}

// NewServer starts a server answering every request with Fixture.
// The caller must Close it.
func NewServer() *Server {
	s := &Server{body: Fixture, status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *Server) serve(w http.ResponseWriter, _ *http.Request) {
	s.calls.Add(1)
	s.mu.Lock()
	body, status := s.body, s.status
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Calls returns the number of requests served so far.
func (s *Server) Calls() int {
	return int(s.calls.Load())
}

// Respond changes the status and body of subsequent responses.
func (s *Server) Respond(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

// Fail makes subsequent requests answer 503.
func (s *Server) Fail() {
	s.Respond(http.StatusServiceUnavailable, `{"error":"unavailable"}`)
}

// Recover restores the fixture response.
func (s *Server) Recover() {
	s.Respond(http.StatusOK, Fixture)
}
