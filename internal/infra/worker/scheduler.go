package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RefreshFunc recomputes a periodic value, e.g. the stored submission gauge.
type RefreshFunc func(ctx context.Context) error

// Scheduler runs a RefreshFunc on the configured cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	refresh RefreshFunc
	timeout time.Duration
	metrics *WorkerMetrics
	logger  *slog.Logger
}

// NewScheduler parses cfg.GaugeSchedule in cfg's timezone. Runs that
// overlap a still-running refresh are skipped.
func NewScheduler(cfg *WorkerConfig, refresh RefreshFunc, metrics *WorkerMetrics, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		refresh: refresh,
		timeout: cfg.JobTimeout,
		metrics: metrics,
		logger:  logger,
	}
	s.cron = cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := s.cron.AddFunc(cfg.GaugeSchedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("schedule gauge refresh: %w", err)
	}
	return s, nil
}

// RunOnce performs a single refresh outside the schedule.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := s.refresh(ctx)
	s.metrics.RecordRefresh(time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Warn("gauge refresh failed", slog.Any("error", err))
		return
	}
	s.logger.Debug("gauge refresh completed", slog.Duration("duration", time.Since(start)))
}

// Run starts the schedule and blocks until ctx is canceled, then waits for
// a running refresh to return.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}
