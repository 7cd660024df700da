// Package notify runs the best-effort summary step of the contact pipeline:
// summarize a stored submission, then deliver the summary to every enabled
// channel. Nothing here reports back to the person who submitted the form.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/infra/summarizer"
	"contact-pipeline/internal/observability/logging"

	"golang.org/x/sync/errgroup"
)

const (
	circuitBreakerThreshold = 5               // consecutive failures before a channel is disabled
	circuitBreakerTimeout   = 5 * time.Minute // how long a disabled channel stays disabled
)

// ChannelHealthStatus describes one channel for health endpoints.
type ChannelHealthStatus struct {
	Name               string     `json:"name"`
	Enabled            bool       `json:"enabled"`
	CircuitBreakerOpen bool       `json:"circuit_breaker_open"`
	DisabledUntil      *time.Time `json:"disabled_until,omitempty"`
}

type channelHealth struct {
	consecutiveFailures int
	disabledUntil       time.Time
	mu                  sync.Mutex
}

// Runner executes one summary job. The in-process dispatcher and the Redis
// worker share it.
type Runner struct {
	summarizer summarizer.Summarizer
	channels   []Channel
	health     map[string]*channelHealth
	now        func() time.Time
}

// NewRunner wires summarizer to channels. Channel names must be unique.
func NewRunner(s summarizer.Summarizer, channels []Channel) *Runner {
	r := &Runner{
		summarizer: s,
		channels:   channels,
		health:     make(map[string]*channelHealth, len(channels)),
		now:        time.Now,
	}
	enabled := 0
	for _, ch := range channels {
		r.health[ch.Name()] = &channelHealth{}
		if ch.IsEnabled() {
			enabled++
		}
	}
	channelsEnabled.Set(float64(enabled))
	return r
}

// Run summarizes sub and fans the summary out. A summarizer failure is
// returned without notifying. Channel failures are joined into the error.
func (r *Runner) Run(ctx context.Context, sub *entity.Submission) error {
	summary, err := r.summarizer.Summarize(ctx, entity.SubmissionInput{
		Name:    sub.Name,
		Email:   sub.Email,
		Message: sub.Message,
	})
	if err != nil {
		recordJob("summary_failed")
		return fmt.Errorf("summarize submission %s: %w", sub.ID, err)
	}

	if err := r.Notify(ctx, sub, summary); err != nil {
		recordJob("notify_failed")
		return err
	}
	recordJob("success")
	return nil
}

// Notify delivers summary to every enabled channel concurrently.
func (r *Runner) Notify(ctx context.Context, sub *entity.Submission, summary entity.Summary) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	sent := 0
	for _, ch := range r.channels {
		if !ch.IsEnabled() {
			continue
		}
		sent++
		g.Go(func() error {
			if err := r.send(ctx, ch, sub, summary); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if sent == 0 {
		return ErrNoChannels
	}
	return errors.Join(errs...)
}

func (r *Runner) send(ctx context.Context, ch Channel, sub *entity.Submission, summary entity.Summary) error {
	health := r.health[ch.Name()]

	health.mu.Lock()
	if r.now().Before(health.disabledUntil) {
		until := health.disabledUntil
		health.mu.Unlock()
		slog.Warn("Channel temporarily disabled due to circuit breaker",
			slog.String("channel", ch.Name()),
			slog.String("submission_id", sub.ID),
			slog.Time("disabled_until", until))
		recordDropped(ch.Name(), "circuit_open")
		return ErrCircuitBreakerOpen
	}
	health.mu.Unlock()

	start := r.now()
	err := ch.Send(ctx, sub, summary)
	duration := r.now().Sub(start)
	recordSend(ch.Name(), err, duration)

	health.mu.Lock()
	if err != nil {
		health.consecutiveFailures++
		if health.consecutiveFailures >= circuitBreakerThreshold {
			health.disabledUntil = r.now().Add(circuitBreakerTimeout)
			health.consecutiveFailures = 0
			slog.Error("Circuit breaker opened for channel",
				slog.String("channel", ch.Name()),
				slog.Time("disabled_until", health.disabledUntil))
			recordCircuitBreakerOpen(ch.Name())
		}
	} else {
		health.consecutiveFailures = 0
	}
	health.mu.Unlock()

	if err != nil {
		slog.Warn("Channel notification failed",
			slog.String("channel", ch.Name()),
			slog.String("submission_id", sub.ID),
			slog.Duration("send_duration", duration),
			logging.Err(err))
		return err
	}
	return nil
}

// ChannelHealth snapshots every channel's breaker state.
func (r *Runner) ChannelHealth() []ChannelHealthStatus {
	now := r.now()
	statuses := make([]ChannelHealthStatus, 0, len(r.channels))
	for _, ch := range r.channels {
		health := r.health[ch.Name()]
		health.mu.Lock()
		status := ChannelHealthStatus{Name: ch.Name(), Enabled: ch.IsEnabled()}
		if now.Before(health.disabledUntil) {
			until := health.disabledUntil
			status.CircuitBreakerOpen = true
			status.DisabledUntil = &until
		}
		health.mu.Unlock()
		statuses = append(statuses, status)
	}
	return statuses
}
