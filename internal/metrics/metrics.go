// Package metrics provides Prometheus metrics for the catalog service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportsTotal tracks finished imports by source and outcome
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "import",
			Name:      "runs_total",
			Help:      "Total number of imports by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	// ImportRecordsTotal tracks processed menu items by result
	ImportRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "import",
			Name:      "records_total",
			Help:      "Total number of import units by result",
		},
		[]string{"result"},
	)

	// ImportDuration tracks import duration in seconds
	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: "import",
			Name:      "duration_seconds",
			Help:      "Duration of imports in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	// EventsPublishedTotal tracks import events sent to RabbitMQ
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of import events published by status",
		},
		[]string{"status"},
	)

	// EventsConsumedTotal tracks import events handled by the consumer
	EventsConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "events",
			Name:      "consumed_total",
			Help:      "Total number of import events consumed by status",
		},
		[]string{"status"},
	)

	// CacheInvalidationsTotal tracks response cache purges after imports
	CacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Total number of response cache purges by status",
		},
		[]string{"status"},
	)
)

// ObserveImport records one finished import.
func ObserveImport(source string, success bool, successCount, errorCount int, elapsed time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	ImportsTotal.WithLabelValues(source, outcome).Inc()
	ImportRecordsTotal.WithLabelValues("success").Add(float64(successCount))
	ImportRecordsTotal.WithLabelValues("error").Add(float64(errorCount))
	ImportDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// Status maps an error to the status label used by the counters above.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
