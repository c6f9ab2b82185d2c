package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-wallet/internal/config"
	"expense-wallet/internal/currency"
	"expense-wallet/internal/handlers"
	"expense-wallet/internal/ledger"
	"expense-wallet/internal/rates"
	"expense-wallet/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgFile := fs.String("config", "", "Path to config file (default ./config.yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.New(), *cfgFile)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	store := newStore(cfg, db, logger)
	if _, err := store.LoadCurrencies(ctx); err != nil {
		// The list is fetched again on GET /currencies.
		logger.Warn("initial currency fetch failed", "error", err)
	}

	h := handlers.NewHandlers(store, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "db", cfg.DBPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newStore restores the wallet from db and mirrors every commit back to it.
func newStore(cfg config.Config, db *storage.DB, logger *slog.Logger) *ledger.Store {
	provider := rates.NewHTTPProvider(cfg.RatesURL, currency.Base,
		rates.WithClient(&http.Client{Timeout: cfg.Timeout}),
		rates.WithExcluded(cfg.Excluded),
		rates.WithLogger(logger),
	)
	mirror := storage.NewMirror(db, logger)
	store := ledger.NewStore(mirror.Restore(), provider, logger)
	store.Subscribe(mirror.Observe)
	return store
}

func setupRouter(h *handlers.Handlers, logger *slog.Logger) http.Handler {
	mux := h.Routes()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mux.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
