package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"ecomdash/internal/cli"
	apphttp "ecomdash/internal/http"
	"ecomdash/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()
	panels := cli.LoadPanels(logger, cfg.PanelsFile)

	ctx := context.Background()
	ds := cli.LoadDataset(ctx, logger, cfg)
	rep := cli.BuildReport(ctx, logger, cfg, ds)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Dataset:   ds,
		Report:    rep,
		Panels:    panels,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger,
		RateLimit: cfg.RateLimit,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting ecomdash server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldRows, rep.Rows,
		log.FieldReference, cfg.ReferenceDate,
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done.Done()
	logger.Info("Server stopped gracefully")
}
