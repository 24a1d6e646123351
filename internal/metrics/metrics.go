// Package metrics defines the Prometheus instrumentation exposed on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livingdocs_http_requests_total",
		Help: "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration observes request latency by route pattern
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "livingdocs_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// PublicDownloadsTotal counts successful public blob transfers
	PublicDownloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livingdocs_public_downloads_total",
		Help: "Successful public document downloads",
	})

	// SweepRunsTotal counts completed retention sweep cycles
	SweepRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livingdocs_sweep_runs_total",
		Help: "Completed retention sweep cycles",
	})

	// SweepDeletedTotal counts versions pruned by the retention sweeper
	SweepDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livingdocs_sweep_deleted_versions_total",
		Help: "Expired versions removed by the retention sweeper",
	})

	// SweepErrorsTotal counts per-item sweep failures
	SweepErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livingdocs_sweep_errors_total",
		Help: "Versions the retention sweeper failed to remove",
	})
)
