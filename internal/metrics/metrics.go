package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring ingestion outcomes
var (
	EventsAppliedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ordersync_events_applied_total",
			Help: "Total number of events applied to the orders store",
		},
	)

	EventsIgnoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ordersync_events_ignored_total",
			Help: "Total number of duplicate or stale events ignored",
		},
	)

	EventsConflictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ordersync_events_conflict_total",
			Help: "Total number of events diverted to the conflict sink",
		},
	)

	EventsDeadLetterTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ordersync_events_deadletter_total",
			Help: "Total number of events diverted to the dead-letter sink",
		},
	)

	StorageRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ordersync_storage_retries_total",
			Help: "Total number of transient storage failures retried",
		},
	)

	ApplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ordersync_apply_duration_seconds",
			Help:    "Duration of single-event apply cycles",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(EventsAppliedTotal)
	prometheus.MustRegister(EventsIgnoredTotal)
	prometheus.MustRegister(EventsConflictTotal)
	prometheus.MustRegister(EventsDeadLetterTotal)
	prometheus.MustRegister(StorageRetriesTotal)
	prometheus.MustRegister(ApplyDuration)
}
