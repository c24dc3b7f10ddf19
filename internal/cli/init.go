// Package cli provides common process initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/famledger and cmd/famledger-worker.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"famledger/internal/backend"
	"famledger/internal/config"
	"famledger/internal/ledger"
	applog "famledger/internal/log"
)

// SetupLogger initializes structured logging at the given level on w and sets
// it as the default logger.
func SetupLogger(w io.Writer, level string) *applog.Logger {
	lvl := applog.ParseLevel(level)
	logger := applog.New(applog.Config{
		Level:     lvl,
		Component: applog.ComponentApp,
		Handler:   slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}),
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			applog.FieldErrorType, applog.ErrorTypeConfiguration,
			applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenLedger builds the configured medium and opens the ledger on it, logging
// through the logger carried by ctx. With notify set, the AMQP publisher (if
// configured) receives change events. The returned cleanup is never nil.
func OpenLedger(ctx context.Context, cfg *config.Config, notify bool) (*ledger.Store, backend.CleanupFunc, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	if !notify {
		bcfg.AMQPURL = ""
	}

	res, err := backend.NewFactory(applog.FromContext(ctx)).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create backend: %w", err)
	}
	cleanup := res.Cleanup
	if cleanup == nil {
		cleanup = func() error { return nil }
	}

	opts := []ledger.Option{ledger.WithKeyPrefix(cfg.KeyPrefix)}
	if res.Notifier != nil {
		opts = append(opts, ledger.WithNotifier(res.Notifier))
	}
	store, err := ledger.Open(ctx, res.Medium, opts...)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("open ledger: %w", err)
	}
	return store, cleanup, nil
}

// LoadLedger opens the ledger without change notifications and releases the
// backend right away. Reads never touch the medium after Open.
func LoadLedger(ctx context.Context, cfg *config.Config) (*ledger.Store, error) {
	store, cleanup, err := OpenLedger(ctx, cfg, false)
	if err != nil {
		return nil, err
	}
	releaseBackend(ctx, cleanup)
	return store, nil
}

func releaseBackend(ctx context.Context, cleanup backend.CleanupFunc) {
	if err := cleanup(); err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentCLI).WarnContext(ctx,
			"Failed to release ledger backend",
			applog.FieldError, err)
	}
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-finished:
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
