package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"expense-wallet/internal/config"
	"expense-wallet/internal/currency"
	"expense-wallet/internal/ledger"
	"expense-wallet/internal/rates"
	"expense-wallet/internal/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, v: config.New()}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// app carries what every command needs once the config is loaded.
type app struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	v       *viper.Viper
	cfgFile string

	logger *slog.Logger
	db     *storage.DB
	store  *ledger.Store
}

var errNotLoggedIn = errors.New("not logged in, run 'wallet login' first")

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "wallet",
		Short: "Personal expense wallet with currency conversion",
		Long: `wallet records expenses in any supported currency together with the
exchange rates at the time they were added, and reports them converted
into a display currency.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml)")
	flags.String("db", "", "path to the wallet database")
	flags.String("rates-url", "", "exchange rate provider endpoint")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("db_path", flags.Lookup("db"))
	_ = a.v.BindPFlag("rates_url", flags.Lookup("rates-url"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		loginCmd(a),
		logoutCmd(a),
		currenciesCmd(a),
		addCmd(a),
		listCmd(a),
		editCmd(a),
		deleteCmd(a),
		statsCmd(a),
	)
	return root
}

func (a *app) init(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(a.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db

	provider := rates.NewHTTPProvider(cfg.RatesURL, currency.Base,
		rates.WithClient(&http.Client{Timeout: cfg.Timeout}),
		rates.WithExcluded(cfg.Excluded),
		rates.WithLogger(logger),
	)
	mirror := storage.NewMirror(db, logger)
	a.store = ledger.NewStore(mirror.Restore(), provider, logger)
	a.store.Subscribe(mirror.Observe)
	return nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
}

// requireLogin is the PreRunE of every command that works on the wallet.
func (a *app) requireLogin(_ *cobra.Command, _ []string) error {
	if !a.store.State().LoggedIn() {
		return errNotLoggedIn
	}
	return nil
}
