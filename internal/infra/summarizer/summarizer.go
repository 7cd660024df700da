// Package summarizer produces the one-sentence operator summary of a contact
// submission by calling a hosted text-generation model.
//
// Gemini, Claude and OpenAI adapters share one call path: a per-call timeout,
// a circuit breaker, structured logging and Prometheus metrics. Calls are made
// once; the caller decides what a failure means (the contact pipeline only
// logs it).
package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/observability/logging"
	"contact-pipeline/internal/resilience/circuitbreaker"
	"contact-pipeline/internal/utils/text"
)

// Summarizer generates a Summary for a validated submission.
type Summarizer interface {
	Summarize(ctx context.Context, in entity.SubmissionInput) (entity.Summary, error)
}

// PromptTemplate is filled with name, email and message in that order.
const PromptTemplate = "Summarize the following contact form submission in one sentence:\n\nName: %s\nEmail: %s\nMessage: %s"

const (
	// maxPromptMessageRunes keeps a pasted essay from blowing the token budget.
	maxPromptMessageRunes = 8000
	// maxSummaryRunes bounds what reaches Slack, Discord and mail subjects.
	maxSummaryRunes = 500
)

// BuildPrompt renders PromptTemplate for in. The message goes in verbatim,
// cut at maxPromptMessageRunes.
func BuildPrompt(in entity.SubmissionInput) string {
	message := text.Truncate(in.Message, maxPromptMessageRunes)
	return fmt.Sprintf(PromptTemplate, in.Name, in.Email, message)
}

// ParseSummary normalises a model reply. Both a bare sentence and a JSON
// object of the form {"summary": "..."} (optionally inside a ``` fence) are
// accepted. Only the first sentence is kept.
func ParseSummary(raw string) entity.Summary {
	body := strings.TrimSpace(raw)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
		body = strings.TrimSpace(body)
	}

	if strings.HasPrefix(body, "{") {
		var out entity.Summary
		if err := json.Unmarshal([]byte(body), &out); err == nil {
			body = out.Summary
		}
	}

	sentence := text.FirstSentence(strings.Join(strings.Fields(body), " "))
	return entity.Summary{Summary: text.Truncate(sentence, maxSummaryRunes)}
}

// generateFunc sends prompt to a provider and returns the raw reply text.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// guardedCall is the call path shared by every network provider.
type guardedCall struct {
	provider string
	breaker  *circuitbreaker.CircuitBreaker
	timeout  time.Duration
	metrics  MetricsRecorder
	generate generateFunc
}

func newGuardedCall(provider string, cb *circuitbreaker.CircuitBreaker, timeout time.Duration, fn generateFunc) *guardedCall {
	return &guardedCall{
		provider: provider,
		breaker:  cb,
		timeout:  timeout,
		metrics:  NewPrometheusMetrics(),
		generate: fn,
	}
}

func (g *guardedCall) summarize(ctx context.Context, in entity.SubmissionInput) (entity.Summary, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	logger := slog.With(
		slog.String("provider", g.provider),
		slog.String("summary_request_id", requestID))

	prompt := BuildPrompt(in)
	logger.DebugContext(ctx, "summarization started",
		slog.Int("prompt_length", text.CountRunes(prompt)))

	start := time.Now()
	raw, err := circuitbreaker.Run(g.breaker, func() (string, error) {
		return g.generate(ctx, prompt)
	})
	duration := time.Since(start)

	if err != nil {
		reason := failureReason(err)
		g.metrics.RecordFailure(g.provider, reason, duration)
		logger.WarnContext(ctx, "summarization failed",
			slog.String("reason", reason),
			slog.Duration("duration", duration),
			slog.String("state", g.breaker.State().String()),
			logging.Err(err))
		return entity.Summary{}, fmt.Errorf("%s: %w: %w", g.provider, entity.ErrSummarization, err)
	}

	summary := ParseSummary(raw)
	if summary.IsEmpty() {
		g.metrics.RecordFailure(g.provider, "empty", duration)
		logger.WarnContext(ctx, "summarization returned no text",
			slog.Duration("duration", duration))
		return entity.Summary{}, fmt.Errorf("%s: %w: empty response", g.provider, entity.ErrSummarization)
	}

	length := text.CountRunes(summary.Summary)
	g.metrics.RecordSuccess(g.provider, length, duration)
	logger.InfoContext(ctx, "summarization completed",
		slog.Int("summary_length", length),
		slog.Duration("duration", duration))

	return summary, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "api_error"
	}
}
