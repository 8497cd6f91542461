package main

import (
	"context"
	"os"

	"ecomdash/internal/cli"
	"ecomdash/internal/log"
	"ecomdash/internal/report"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()
	panels := cli.LoadPanels(logger, cfg.PanelsFile)

	ctx := context.Background()
	ds := cli.LoadDataset(ctx, logger, cfg)
	rep := cli.BuildReport(ctx, logger, cfg, ds)

	if err := report.Render(os.Stdout, rep, panels); err != nil {
		logger.WithComponent(log.ComponentReport).Error("Failed to render report", "error", err, log.FieldOperation, log.OpRender)
		os.Exit(1)
	}
}
