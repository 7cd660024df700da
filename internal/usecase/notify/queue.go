package notify

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/infra/queue"
	"contact-pipeline/internal/observability/logging"
)

// JobQueue is the producer side of the summary job queue.
type JobQueue interface {
	Push(ctx context.Context, job queue.SummaryJob) error
}

// JobSource is the consumer side of the summary job queue.
type JobSource interface {
	Pop(ctx context.Context, timeout time.Duration) (queue.SummaryJob, error)
}

const (
	enqueueTimeout = 2 * time.Second
	// maxPendingPushes bounds pushes in flight while Redis is slow.
	maxPendingPushes = 64
)

type queueDispatcher struct {
	queue   JobQueue
	pending chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex // guards closed and wg.Add
	closed  bool
}

// NewQueueDispatcher pushes each submission onto q for cmd/worker to pick up.
func NewQueueDispatcher(q JobQueue) Dispatcher {
	return &queueDispatcher{queue: q, pending: make(chan struct{}, maxPendingPushes)}
}

// Dispatch pushes in the background with its own short timeout, so a slow
// Redis never holds up the caller. When maxPendingPushes pushes are already
// in flight, or after Shutdown, the job is dropped and logged.
func (d *queueDispatcher) Dispatch(ctx context.Context, sub *entity.Submission) {
	if sub == nil {
		return
	}
	job := queue.NewSummaryJob(sub)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.drop(job, "dispatcher shut down")
		return
	}
	select {
	case d.pending <- struct{}{}:
	default:
		d.mu.Unlock()
		d.drop(job, "too many pending pushes")
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	pushCtx := context.WithoutCancel(ctx)
	go func() {
		defer d.wg.Done()
		defer func() { <-d.pending }()
		d.push(pushCtx, job)
	}()
}

func (d *queueDispatcher) push(ctx context.Context, job queue.SummaryJob) {
	ctx, cancel := context.WithTimeout(ctx, enqueueTimeout)
	defer cancel()

	if err := d.queue.Push(ctx, job); err != nil {
		slog.Warn("Summary job could not be queued",
			slog.String("job_id", job.JobID),
			slog.String("submission_id", job.SubmissionID),
			logging.Err(err))
		recordJob("dropped")
	}
}

func (d *queueDispatcher) drop(job queue.SummaryJob, reason string) {
	slog.Warn("Summary job dropped",
		slog.String("reason", reason),
		slog.String("job_id", job.JobID),
		slog.String("submission_id", job.SubmissionID))
	recordJob("dropped")
}

// Shutdown stops accepting jobs and waits for pushes already started.
func (d *queueDispatcher) Shutdown(ctx context.Context) error {
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
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consumer pulls summary jobs from a queue and runs them one at a time.
type Consumer struct {
	source      JobSource
	runner      *Runner
	jobTimeout  time.Duration
	pollTimeout time.Duration
}

// NewConsumer creates a Consumer. jobTimeout bounds each job.
func NewConsumer(source JobSource, runner *Runner, jobTimeout time.Duration) *Consumer {
	if jobTimeout <= 0 {
		jobTimeout = DefaultConfig().Timeout
	}
	return &Consumer{
		source:      source,
		runner:      runner,
		jobTimeout:  jobTimeout,
		pollTimeout: 5 * time.Second,
	}
}

// Run processes jobs until ctx is canceled. Job failures are logged and do
// not stop the loop.
func (c *Consumer) Run(ctx context.Context) error {
	slog.Info("Summary consumer started")
	for {
		if err := ctx.Err(); err != nil {
			slog.Info("Summary consumer stopped")
			return nil
		}

		job, err := c.source.Pop(ctx, c.pollTimeout)
		switch {
		case errors.Is(err, queue.ErrEmpty):
			continue
		case err != nil:
			if ctx.Err() != nil {
				continue
			}
			slog.Error("Summary queue read failed", logging.Err(err))
			sleepCtx(ctx, time.Second)
			continue
		}

		c.process(ctx, job)
	}
}

func (c *Consumer) process(ctx context.Context, job queue.SummaryJob) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in summary job",
				slog.String("job_id", job.JobID),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			recordJob("panic")
		}
	}()

	activeJobs.Inc()
	defer activeJobs.Dec()

	jobCtx, cancel := context.WithTimeout(ctx, c.jobTimeout)
	defer cancel()

	start := time.Now()
	err := c.runner.Run(jobCtx, job.Submission())
	if err != nil && !errors.Is(err, ErrNoChannels) {
		slog.Warn("Summary job failed",
			slog.String("job_id", job.JobID),
			slog.String("submission_id", job.SubmissionID),
			logging.Err(err))
		return
	}
	slog.Info("Summary job completed",
		slog.String("job_id", job.JobID),
		slog.String("submission_id", job.SubmissionID),
		slog.Duration("queue_latency", start.Sub(job.EnqueuedAt)),
		slog.Duration("duration", time.Since(start)))
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
