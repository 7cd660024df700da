package config

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics tracks configuration fallbacks for one component under
// {component}_config_* metric names.
type ConfigMetrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge

	mu     sync.Mutex
	active map[string]bool
}

// NewConfigMetrics registers the metrics with the default registry. It
// panics when called twice with the same component name.
func NewConfigMetrics(component string) *ConfigMetrics {
	return &ConfigMetrics{
		LoadTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: component + "_config_load_timestamp",
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", component),
		}),
		ValidationErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: component + "_config_validation_errors_total",
			Help: fmt.Sprintf("Total %s configuration validation errors", component),
		}, []string{"field"}),
		FallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: component + "_config_fallbacks_total",
			Help: fmt.Sprintf("Total %s configuration fallbacks", component),
		}, []string{"field"}),
		FallbackActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: component + "_config_fallback_active",
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", component),
		}),
		active: make(map[string]bool),
	}
}

// RecordLoadTimestamp marks a completed load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	if m == nil {
		return
	}
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordFallback counts a rejected value for field and marks it active.
func (m *ConfigMetrics) RecordFallback(field string) {
	if m == nil {
		return
	}
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
	m.FallbacksTotal.WithLabelValues(field).Inc()
	m.setActive(field, true)
}

// ClearFallback marks field as loaded without a fallback.
func (m *ConfigMetrics) ClearFallback(field string) {
	if m == nil {
		return
	}
	m.setActive(field, false)
}

func (m *ConfigMetrics) setActive(field string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if active {
		m.active[field] = true
	} else {
		delete(m.active, field)
	}
	if len(m.active) > 0 {
		m.FallbackActive.Set(1)
	} else {
		m.FallbackActive.Set(0)
	}
}

// WithFallback returns value when validate accepts it. Otherwise it logs a
// warning, records the fallback and returns defaultValue, so a bad setting
// never stops a background process from starting.
func WithFallback[T any](logger *slog.Logger, metrics *ConfigMetrics, field, envKey string, value, defaultValue T, validate func(T) error) T {
	if err := validate(value); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("env_key", envKey),
			slog.Any("invalid_value", value),
			slog.Any("default_value", defaultValue),
			slog.String("error", err.Error()))
		metrics.RecordFallback(field)
		return defaultValue
	}
	metrics.ClearFallback(field)
	return value
}
