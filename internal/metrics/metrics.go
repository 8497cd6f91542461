// Package metrics holds the Prometheus collectors of the dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ecomdash_dataset_rows",
		Help: "Number of order lines in the loaded dataset",
	})

	DatasetLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecomdash_dataset_load_duration_seconds",
		Help:    "Time spent loading the dataset",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})

	DatasetLoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecomdash_dataset_load_failures_total",
		Help: "Total number of failed dataset loads",
	}, []string{"backend"})

	ComputeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecomdash_compute_duration_seconds",
		Help:    "Time spent computing each analytics table",
		Buckets: prometheus.DefBuckets,
	}, []string{"table"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecomdash_recency_cache_lookups_total",
		Help: "Recency cache lookups by result",
	}, []string{"result"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecomdash_rate_limited_requests_total",
		Help: "Total number of API requests rejected by the rate limiter",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

// ObserveCompute records one table computation; it matches the
// analytics.Options observer signature.
func ObserveCompute(table string, elapsed time.Duration) {
	ComputeDuration.WithLabelValues(table).Observe(elapsed.Seconds())
}

// CacheHit and CacheMiss count recency cache lookups.
func CacheHit()  { CacheLookups.WithLabelValues("hit").Inc() }
func CacheMiss() { CacheLookups.WithLabelValues("miss").Inc() }
