package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Index service and reconciliation metrics.
var (
	IndexRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esengine",
			Name:      "index_requests_total",
			Help:      "Total number of requests sent to the index service",
		},
		[]string{"operation", "status"},
	)

	IndexRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "esengine",
			Name:      "index_request_duration_seconds",
			Help:      "Index service request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	DocumentsIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esengine",
			Name:      "documents_indexed_total",
			Help:      "Documents sent for indexing by result",
		},
		[]string{"result"}, // "ok" / "failed" / "invalid"
	)

	AccessChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "esengine",
			Name:      "access_checks_total",
			Help:      "Per-hit access check outcomes",
		},
		[]string{"outcome"}, // granted / denied / deleted / unknown_area
	)
)

var registerOnce sync.Once

// Register registers all esengine collectors with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			IndexRequestsTotal,
			IndexRequestDuration,
			DocumentsIndexedTotal,
			AccessChecksTotal,
			httpRequestDuration,
			httpRequestsTotal,
		)
	})
}
