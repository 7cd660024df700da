package worker

import (
	"contact-pipeline/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics groups the worker's configuration metrics
// (worker_config_*) with the scheduled gauge refresh metrics.
// Summary job metrics live in the notify package.
type WorkerMetrics struct {
	*config.ConfigMetrics

	GaugeRefreshRunsTotal     *prometheus.CounterVec
	GaugeRefreshDuration      prometheus.Histogram
	GaugeRefreshLastSuccessTS prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics with the default registry.
// Call it once per process.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		GaugeRefreshRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_gauge_refresh_runs_total",
			Help: "Scheduled stored-submission gauge refreshes by status (success/failure)",
		}, []string{"status"}),

		GaugeRefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_gauge_refresh_duration_seconds",
			Help:    "Duration of one stored-submission gauge refresh",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5},
		}),

		GaugeRefreshLastSuccessTS: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_gauge_refresh_last_success_timestamp",
			Help: "Unix timestamp of the last successful gauge refresh",
		}),
	}
}

// RecordRefresh records one refresh run.
func (m *WorkerMetrics) RecordRefresh(seconds float64, err error) {
	if m == nil {
		return
	}
	m.GaugeRefreshDuration.Observe(seconds)
	if err != nil {
		m.GaugeRefreshRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.GaugeRefreshRunsTotal.WithLabelValues("success").Inc()
	m.GaugeRefreshLastSuccessTS.SetToCurrentTime()
}
