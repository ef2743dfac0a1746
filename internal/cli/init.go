// Package cli wires process-level concerns for the outlay command:
// logging, .env loading, configuration, and the signal-aware root
// context.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"outlay/internal/config"
	"outlay/internal/storage"
)

// SetupLogger initializes structured logging at the given level and
// installs it as the default logger. Logs go to stderr so command
// output on stdout stays parseable.
func SetupLogger(level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a configuration string to a slog level. Unknown
// strings fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig loads the environment configuration and validates it.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenStore opens the expense database at path, creating it and
// running migrations on first use.
func OpenStore(logger *slog.Logger, path string) (*storage.Store, error) {
	store, err := storage.Open(path)
	if err != nil {
		logger.Error("Failed to open expense database", "error", err, "path", path)
		return nil, err
	}
	return store, nil
}

// RootContext returns a context cancelled on SIGINT or SIGTERM so a
// long listing or export stops cleanly.
func RootContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
