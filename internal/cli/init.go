// Package cli provides the process bootstrap helpers and the interactive
// text shell of the mintly command.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mintly/internal/config"
	"mintly/internal/log"
)

// SetupLogger initializes structured logging at the given level on stderr
// and sets it as the default logger. Unknown levels fall back to info.
func SetupLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	logger := log.New(cfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info logging", log.FieldError, err)
	}
	return logger
}

// LoadEnvFile loads the .env file for local use.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldOperation, log.OpValidate, log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
