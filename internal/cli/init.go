// Package cli provides common CLI initialization utilities shared by
// cmd/ecomdash, cmd/ecomdash-report and cmd/dataset-import.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ecomdash/internal/analytics"
	"ecomdash/internal/backend"
	"ecomdash/internal/config"
	"ecomdash/internal/core"
	"ecomdash/internal/log"
	"ecomdash/internal/metrics"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from the configured level and
// installs it as the slog default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg, logger
}

// LoadPanels reads the optional panel overrides or exits on failure.
func LoadPanels(logger *log.Logger, path string) config.Panels {
	panels, err := config.LoadPanels(path)
	if err != nil {
		logger.Error("Failed to load panel configuration", "error", err, "path", path)
		os.Exit(1)
	}
	return panels
}

// LoadDataset opens the configured backend and reads the whole dataset.
// The backend is closed before returning; exits the process on failure.
func LoadDataset(ctx context.Context, logger *log.Logger, cfg *config.Config) *core.Dataset {
	dsLogger := logger.WithComponent(log.ComponentDataset)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		dsLogger.Error("Invalid backend configuration", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	res, err := backend.NewFactory(dsLogger.Logger).CreateSource(ctx, bcfg)
	if err != nil {
		dsLogger.Error("Failed to initialize dataset backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Close(); err != nil {
			dsLogger.Warn("Failed to close dataset backend", "error", err)
		}
	}()

	ds, err := backend.Load(ctx, res.Source, cfg.DataBackend, log.NewStructuredLogger(dsLogger))
	if err != nil {
		os.Exit(1)
	}
	return ds
}

// BuildReport computes every dashboard table against the configured
// reference date, recording per-table timings. Exits on failure.
func BuildReport(ctx context.Context, logger *log.Logger, cfg *config.Config, ds *core.Dataset) *analytics.Report {
	sl := log.NewStructuredLogger(logger.WithComponent(log.ComponentAnalytics))

	rep, err := analytics.Build(ctx, ds, analytics.Options{
		ReferenceDate: cfg.Reference(),
		Observe: func(table string, elapsed time.Duration) {
			metrics.ObserveCompute(table, elapsed)
			sl.LogTableComputed(ctx, table, elapsed)
		},
	})
	if err != nil {
		sl.LogError(ctx, "Failed to compute dashboard tables", err, log.OpCompute)
		os.Exit(1)
	}
	return rep
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// The returned context is cancelled once cleanup has run or the timeout
// elapsed, whichever comes first.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		}
		cancel()
	}()

	return ctx
}
