package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics
var (
	// StoredSubmissions is the number of submissions in the store at the last refresh
	StoredSubmissions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_stored_submissions",
			Help: "Number of contact submissions in the store",
		},
	)

	// SummaryQueueDepth is the number of summary jobs waiting in Redis
	SummaryQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_summary_queue_depth",
			Help: "Summary jobs waiting in the Redis queue",
		},
	)

	// BuildInfo is always 1; the labels carry the running version
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contact_build_info",
			Help: "Build information of the running process",
		},
		[]string{"version", "component"},
	)
)

// Database metrics
var (
	// DBQueryDuration measures submission store queries
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	DBConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_in_use",
			Help: "Number of database connections currently in use",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	DBConnectionsWaitTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_wait_count",
			Help: "Total number of connections waited for, as reported by database/sql",
		},
	)
)
