package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"contact-pipeline/internal/infra/queue"
	"contact-pipeline/pkg/config"
)

// WorkerConfig holds the settings for cmd/worker.
//
// Environment variables:
//   - GAUGE_SCHEDULE: cron expression for refreshing contact_stored_submissions (default "*/5 * * * *")
//   - WORKER_TIMEZONE: IANA timezone the schedule runs in (default "UTC")
//   - SUMMARY_TIMEOUT: upper bound for one summary job (default 30s, range 1s-10m)
//   - SUMMARY_QUEUE_KEY: Redis list the jobs are read from (default queue.DefaultKey)
//   - WORKER_HEALTH_PORT: port for health and metrics endpoints (default 9091)
type WorkerConfig struct {
	GaugeSchedule string
	Timezone      string
	JobTimeout    time.Duration
	QueueKey      string
	HealthPort    int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		GaugeSchedule: "*/5 * * * *",
		Timezone:      "UTC",
		JobTimeout:    30 * time.Second,
		QueueKey:      queue.DefaultKey,
		HealthPort:    9091,
	}
}

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.GaugeSchedule); err != nil {
		errs = append(errs, fmt.Errorf("gauge schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := validateJobTimeout(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if c.QueueKey == "" {
		errs = append(errs, errors.New("queue key: cannot be empty"))
	}
	if err := validatePort(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	return errors.Join(errs...)
}

// Location returns the timezone the gauge schedule runs in.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv reads WorkerConfig from the environment. Invalid values
// fall back to their defaults with a warning and a metric, so the worker
// always starts; the returned config always passes Validate.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	def := DefaultConfig()
	var cm *config.ConfigMetrics
	if metrics != nil {
		cm = metrics.ConfigMetrics
	}

	cfg := def
	cfg.GaugeSchedule = config.WithFallback(logger, cm, "gauge_schedule", "GAUGE_SCHEDULE",
		config.GetEnvString("GAUGE_SCHEDULE", def.GaugeSchedule), def.GaugeSchedule, config.ValidateCronSchedule)
	cfg.Timezone = config.WithFallback(logger, cm, "timezone", "WORKER_TIMEZONE",
		config.GetEnvString("WORKER_TIMEZONE", def.Timezone), def.Timezone, config.ValidateTimezone)
	cfg.JobTimeout = config.WithFallback(logger, cm, "job_timeout", "SUMMARY_TIMEOUT",
		config.GetEnvDuration("SUMMARY_TIMEOUT", def.JobTimeout), def.JobTimeout, validateJobTimeout)
	cfg.HealthPort = config.WithFallback(logger, cm, "health_port", "WORKER_HEALTH_PORT",
		config.GetEnvInt("WORKER_HEALTH_PORT", def.HealthPort), def.HealthPort, validatePort)
	cfg.QueueKey = config.GetEnvString("SUMMARY_QUEUE_KEY", def.QueueKey)

	cm.RecordLoadTimestamp()
	return &cfg
}

func validateJobTimeout(d time.Duration) error {
	return config.ValidateDurationRange(d, time.Second, 10*time.Minute)
}

// ポートは特権ポートを避ける
func validatePort(p int) error {
	return config.ValidateIntRange(p, 1024, 65535)
}
