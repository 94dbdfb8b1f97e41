package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration observes HTTP handler latency by route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pettycash",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	// DocumentsExported counts rendered export documents by record kind and outcome.
	DocumentsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pettycash",
			Name:      "documents_exported_total",
		},
		[]string{"kind", "outcome"},
	)

	// StatusTransitions counts applied status changes.
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pettycash",
			Name:      "status_transitions_total",
		},
		[]string{"kind", "status"},
	)

	// ReportCacheLookups counts report cache hits and misses.
	ReportCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pettycash",
			Name:      "report_cache_lookups_total",
		},
		[]string{"result"},
	)
)
