package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	summaryJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_summary_jobs_total",
			Help: "Summary jobs by outcome",
		},
		[]string{"result"}, // result: success|summary_failed|notify_failed|dropped|panic
	)

	notificationSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_notifications_total",
			Help: "Summary notifications by channel and outcome",
		},
		[]string{"channel", "result"}, // result: success|failure
	)

	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contact_notification_duration_seconds",
			Help:    "Notification send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"channel"},
	)

	notificationDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_notifications_dropped_total",
			Help: "Notifications skipped before sending",
		},
		[]string{"channel", "reason"}, // reason: circuit_open
	)

	circuitBreakerOpenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_notification_circuit_breaker_open_total",
			Help: "Times a channel was disabled after consecutive failures",
		},
		[]string{"channel"},
	)

	activeJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_summary_jobs_active",
			Help: "Summary jobs currently running in this process",
		},
	)

	channelsEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "contact_notification_channels_enabled",
			Help: "Number of enabled notification channels",
		},
	)
)

func recordJob(result string) {
	summaryJobsTotal.WithLabelValues(result).Inc()
}

func recordSend(channel string, err error, d time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	notificationSentTotal.WithLabelValues(channel, result).Inc()
	notificationDuration.WithLabelValues(channel).Observe(d.Seconds())
}

func recordDropped(channel, reason string) {
	notificationDroppedTotal.WithLabelValues(channel, reason).Inc()
}

func recordCircuitBreakerOpen(channel string) {
	circuitBreakerOpenTotal.WithLabelValues(channel).Inc()
}
