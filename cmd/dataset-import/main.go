// Command dataset-import copies the CSV dataset into the SQLite backend so
// later runs can start with DATA_BACKEND=sqlite.
package main

import (
	"context"
	"os"
	"time"

	"ecomdash/internal/backend"
	"ecomdash/internal/cli"
	"ecomdash/internal/config"
	"ecomdash/internal/dataset/csvfile"
	"ecomdash/internal/dataset/sqlite"
	"ecomdash/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(log.ComponentImport)

	// The import always reads CSV, whatever backend the server uses.
	cfg.DataBackend = string(backend.CSVBackend)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	sl := log.NewStructuredLogger(logger)
	ds, err := backend.Load(ctx, csvfile.New(cfg.DatasetPath, cfg.Delimiter()), cfg.DataBackend, sl)
	if err != nil {
		os.Exit(1)
	}

	repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	start := time.Now()
	if err := repo.Import(ctx, ds); err != nil {
		sl.LogError(ctx, "Dataset import failed", err, log.OpImport)
		repo.Close()
		os.Exit(1)
	}

	logger.Info("Dataset imported",
		log.FieldDataset, cfg.DatasetPath,
		log.FieldRows, ds.Len(),
		"db_path", cfg.SQLiteDBPath,
		log.FieldDuration, time.Since(start).Milliseconds(),
		log.FieldOperation, log.OpImport)
}
