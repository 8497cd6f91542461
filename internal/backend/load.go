package backend

import (
	"context"
	"time"

	"ecomdash/internal/core"
	"ecomdash/internal/dataset"
	"ecomdash/internal/log"
	"ecomdash/internal/metrics"
)

// Load reads the whole dataset from src once, recording the load in the
// metrics and the log. backend labels the metrics.
func Load(ctx context.Context, src dataset.Source, backend string, sl *log.StructuredLogger) (*core.Dataset, error) {
	start := time.Now()
	ds, err := src.Load(ctx)
	elapsed := time.Since(start)
	if err != nil {
		metrics.DatasetLoadFailures.WithLabelValues(backend).Inc()
		sl.LogError(ctx, "Dataset load failed", err, log.OpLoad)
		return nil, err
	}

	metrics.DatasetLoadDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	metrics.DatasetRows.Set(float64(ds.Len()))
	sl.LogDatasetLoaded(ctx, backend, src.Name(), ds.Len(), elapsed)
	return ds, nil
}
