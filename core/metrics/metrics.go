package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Finished sync runs by type and terminal status",
		},
		[]string{"sync_type", "status"},
	)

	syncRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_run_duration_seconds",
			Help:    "Duration of finished sync runs in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
		[]string{"sync_type", "status"},
	)

	syncRunItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_sync_run_items",
			Help: "Items synced by the last successful run of each type",
		},
		[]string{"sync_type"},
	)

	linkAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_link_attempts_total",
			Help: "Share link creation attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Link attempt outcomes.
const (
	LinkCreated  = "created"
	LinkExisting = "existing"
	LinkFailed   = "failed"
)

// ObserveRun records a run's terminal transition.
func ObserveRun(syncType, status string, durationSeconds float64, items int) {
	syncRunsTotal.WithLabelValues(syncType, status).Inc()
	syncRunDuration.WithLabelValues(syncType, status).Observe(durationSeconds)
	if status == "success" {
		syncRunItems.WithLabelValues(syncType).Set(float64(items))
	}
}

// ObserveLinkAttempt counts one share link attempt.
func ObserveLinkAttempt(outcome string) {
	linkAttemptsTotal.WithLabelValues(outcome).Inc()
}
