package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"expense-wallet/internal/config"
	"expense-wallet/internal/handlers"
	"expense-wallet/internal/rates/ratestest"
	"expense-wallet/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, ratesURL string) config.Config {
	t.Helper()
	return config.Config{
		DBPath:   filepath.Join(t.TempDir(), "wallet.db"),
		RatesURL: ratesURL,
		Excluded: []string{"USDT"},
		Timeout:  time.Second,
	}
}

func TestSetupRouter(t *testing.T) {
	srv := ratestest.NewServer()
	defer srv.Close()

	// Setup dependencies
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	logger := slog.New(slog.DiscardHandler)
	h := handlers.NewHandlers(newStore(testConfig(t, srv.URL), db, logger), logger)
	router := setupRouter(h, logger)

	// Verify routes
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "Root redirects to /wallet",
			method:     "GET",
			path:       "/",
			wantStatus: http.StatusFound,
		},
		{
			name:       "Currencies are public",
			method:     "GET",
			path:       "/currencies",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Wallet requires login",
			method:     "GET",
			path:       "/wallet",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Unknown route",
			method:     "GET",
			path:       "/expenses/0/nothing",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Wrong method",
			method:     "PATCH",
			path:       "/expenses/0",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code,
				"%s %s returned unexpected status", tt.method, tt.path)
		})
	}
}

func TestStoreSurvivesRestart(t *testing.T) {
	srv := ratestest.NewServer()
	defer srv.Close()
	cfg := testConfig(t, srv.URL)
	logger := slog.New(slog.DiscardHandler)

	post := func(router http.Handler, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", path, &buf))
		return w
	}

	db, err := storage.NewDB(cfg.DBPath)
	require.NoError(t, err)
	store := newStore(cfg, db, logger)
	router := setupRouter(handlers.NewHandlers(store, logger), logger)

	w := post(router, "/login", handlers.LoginRequest{Email: "someone@email.com", Password: "123456"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, err = store.LoadCurrencies(t.Context())
	require.NoError(t, err)
	w = post(router, "/expenses", map[string]string{
		"value": "10", "currency": "USD", "method": "Credit", "tag": "Leisure", "description": "Ten dollars",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	before := store.State().Expenses
	require.NoError(t, db.Close())

	db, err = storage.NewDB(cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()
	restarted := newStore(cfg, db, logger)
	assert.Equal(t, "someone@email.com", restarted.State().User.Email)
	assert.Equal(t, before, restarted.State().Expenses)
}

func TestRunRejectsBadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "loud")

	var stderr bytes.Buffer
	err := run(t.Context(), nil, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
