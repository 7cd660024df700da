package notify

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/observability/logging"

	"github.com/google/uuid"
)

// Dispatcher hands a stored submission to the summary step without
// waiting for it.
type Dispatcher interface {
	// Dispatch never blocks on summarization and never returns its outcome.
	Dispatch(ctx context.Context, sub *entity.Submission)

	// Shutdown waits for in-flight work or ctx, whichever ends first.
	Shutdown(ctx context.Context) error
}

// Config bounds the in-process dispatcher.
type Config struct {
	// MaxConcurrent is the number of jobs allowed to run at once
	MaxConcurrent int

	// Timeout bounds one job, summarization and delivery together
	Timeout time.Duration
}

// DefaultConfig returns 10 concurrent jobs with a 30 second budget each.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent: 10,
		Timeout:       30 * time.Second,
	}
}

type inlineDispatcher struct {
	runner         *Runner
	cfg            Config
	workerPool     chan struct{}
	wg             sync.WaitGroup
	mu             sync.Mutex // guards closed and wg.Add
	closed         bool
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewInlineDispatcher runs jobs in goroutines of the current process.
func NewInlineDispatcher(runner *Runner, cfg Config) Dispatcher {
	def := DefaultConfig()
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	return &inlineDispatcher{
		runner:         runner,
		cfg:            cfg,
		workerPool:     make(chan struct{}, cfg.MaxConcurrent),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}
}

// Dispatch starts the job on a context derived from the dispatcher, not
// from ctx: the request that stored sub is usually finished before the
// summary is. A slot is taken before the goroutine starts; when every slot
// is busy the job is dropped at once, so at most MaxConcurrent goroutines
// exist.
func (d *inlineDispatcher) Dispatch(ctx context.Context, sub *entity.Submission) {
	if sub == nil {
		return
	}
	jobID := uuid.New().String()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		slog.Warn("Summary job dropped: dispatcher shut down",
			slog.String("submission_id", sub.ID))
		recordJob("dropped")
		return
	}
	select {
	case d.workerPool <- struct{}{}:
	default:
		d.mu.Unlock()
		slog.Warn("Summary job dropped: worker pool full",
			slog.String("job_id", jobID),
			slog.String("submission_id", sub.ID))
		recordJob("dropped")
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go d.run(jobID, sub)
}

func (d *inlineDispatcher) run(jobID string, sub *entity.Submission) {
	defer d.wg.Done()
	defer func() { <-d.workerPool }()
	activeJobs.Inc()
	defer activeJobs.Dec()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in summary job",
				slog.String("job_id", jobID),
				slog.String("submission_id", sub.ID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			recordJob("panic")
		}
	}()

	ctx, cancel := context.WithTimeout(d.shutdownCtx, d.cfg.Timeout)
	defer cancel()

	start := time.Now()
	err := d.runner.Run(ctx, sub)
	switch {
	case err == nil:
		slog.Info("Summary job completed",
			slog.String("job_id", jobID),
			slog.String("submission_id", sub.ID),
			slog.Duration("duration", time.Since(start)))
	case errors.Is(err, ErrNoChannels):
		slog.Debug("Summary generated but no channel is enabled",
			slog.String("job_id", jobID),
			slog.String("submission_id", sub.ID))
	default:
		slog.Warn("Summary job failed",
			slog.String("job_id", jobID),
			slog.String("submission_id", sub.ID),
			slog.Duration("duration", time.Since(start)),
			logging.Err(err))
	}
}

// Shutdown stops accepting jobs and lets running ones finish. Jobs still
// running when ctx ends are canceled.
func (d *inlineDispatcher) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down summary dispatcher")
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.shutdownCancel()
		slog.Info("Summary dispatcher shutdown complete")
		return nil
	case <-ctx.Done():
		d.shutdownCancel()
		slog.Warn("Summary dispatcher shutdown timeout")
		return ctx.Err()
	}
}

// NoopDispatcher discards every submission. Used by the CLI and tests.
type NoopDispatcher struct{}

// Dispatch does nothing.
func (NoopDispatcher) Dispatch(context.Context, *entity.Submission) {}

// Shutdown returns nil.
func (NoopDispatcher) Shutdown(context.Context) error { return nil }
