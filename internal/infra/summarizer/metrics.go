package summarizer

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder receives one call per summarization attempt.
// Tests substitute a recorder that captures calls.
type MetricsRecorder interface {
	RecordSuccess(provider string, length int, duration time.Duration)
	RecordFailure(provider, reason string, duration time.Duration)
}

// PrometheusMetrics implements MetricsRecorder with process-wide collectors.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	length   prometheus.Histogram
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the shared recorder, registering its
// collectors with the default registry on first use.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requests: register(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "contact_summaries_total",
				Help: "Summarization attempts by provider and result",
			}, []string{"provider", "result"})),
			duration: register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "contact_summary_duration_seconds",
				Help:    "Time taken by the summary provider call",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
			}, []string{"provider"})),
			length: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "contact_summary_length_characters",
				Help:    "Length of generated summaries in characters (Unicode runes)",
				Buckets: []float64{20, 50, 100, 150, 200, 300, 500},
			})),
		}
	})
	return prometheusMetricsInstance
}

// register returns the already registered collector when an identical one
// exists, which happens when tests build several providers.
func register[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// RecordSuccess implements MetricsRecorder.
func (p *PrometheusMetrics) RecordSuccess(provider string, length int, duration time.Duration) {
	p.requests.WithLabelValues(provider, "success").Inc()
	p.duration.WithLabelValues(provider).Observe(duration.Seconds())
	p.length.Observe(float64(length))
}

// RecordFailure implements MetricsRecorder. reason becomes the result label.
func (p *PrometheusMetrics) RecordFailure(provider, reason string, duration time.Duration) {
	p.requests.WithLabelValues(provider, reason).Inc()
	p.duration.WithLabelValues(provider).Observe(duration.Seconds())
}
