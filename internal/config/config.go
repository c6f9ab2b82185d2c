// Package config loads the wallet settings from defaults, an optional config
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"expense-wallet/internal/rates"

	"github.com/spf13/viper"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Port      string
	DBPath    string
	RatesURL  string
	Excluded  []string
	Timeout   time.Duration
	LogLevel  string
	LogFormat string
}

// env maps config keys to the environment variables that set them.
var env = map[string]string{
	"port":       "PORT",
	"db_path":    "DB_PATH",
	"rates_url":  "RATES_URL",
	"excluded":   "EXCLUDED_CURRENCIES",
	"timeout":    "HTTP_TIMEOUT",
	"log.level":  "LOG_LEVEL",
	"log.format": "LOG_FORMAT",
}

// New returns a viper instance with defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "wallet.db")
	v.SetDefault("rates_url", rates.DefaultURL)
	v.SetDefault("excluded", rates.DefaultExcluded)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	for key, name := range env {
		_ = v.BindEnv(key, name)
	}
	return v
}

// Load reads cfgFile, or config.yaml from the working directory when
// cfgFile is empty, and decodes the result. A missing default file is fine.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{
		Port:      v.GetString("port"),
		DBPath:    v.GetString("db_path"),
		RatesURL:  v.GetString("rates_url"),
		Excluded:  splitList(v.GetStringSlice("excluded")),
		Timeout:   v.GetDuration("timeout"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
	}
	if cfg.RatesURL == "" {
		return Config{}, errors.New("rates_url cannot be empty")
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("invalid timeout %v", cfg.Timeout)
	}
	return cfg, nil
}

// splitList accepts both YAML lists and comma separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.ToUpper(strings.TrimSpace(part)); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// NewLogger builds the logger described by level and format.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	switch format {
	case "console":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return slog.New(handler), nil
}
