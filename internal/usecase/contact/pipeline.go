package contact

import (
	"context"
	"log/slog"
	"time"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/observability/logging"
	"contact-pipeline/internal/repository"
	"contact-pipeline/internal/usecase/notify"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by outcome",
		},
		[]string{"result"}, // result: success|validation_failed|store_failed
	)

	storeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "contact_store_append_duration_seconds",
			Help:    "Time spent appending a submission to the store",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Pipeline accepts contact form submissions.
type Pipeline struct {
	repo       repository.SubmissionRepository
	dispatcher notify.Dispatcher
	tracer     trace.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTracerProvider sets the provider spans are created from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Pipeline) {
		p.tracer = tp.Tracer("contact-pipeline/usecase/contact")
	}
}

// NewPipeline creates a Pipeline. A nil dispatcher disables summaries.
func NewPipeline(repo repository.SubmissionRepository, dispatcher notify.Dispatcher, opts ...Option) *Pipeline {
	if dispatcher == nil {
		dispatcher = notify.NoopDispatcher{}
	}
	p := &Pipeline{
		repo:       repo,
		dispatcher: dispatcher,
		tracer:     otel.Tracer("contact-pipeline/usecase/contact"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit validates raw, stores it and schedules its summary.
//
// The store write is awaited; the summary is not, and its outcome never
// changes the Result. Nothing is stored when validation fails, and nothing
// is summarized when the store fails.
func (p *Pipeline) Submit(ctx context.Context, raw entity.RawFields) Result {
	ctx, span := p.tracer.Start(ctx, "contact.Submit")
	defer span.End()

	in, failure := Validate(raw)
	if failure != nil {
		slog.DebugContext(ctx, "contact submission rejected",
			slog.Int("issues", len(failure.Issues)))
		return p.finish(span, validationResult(failure))
	}

	start := time.Now()
	sub, err := p.repo.Append(ctx, in)
	storeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store append failed")
		slog.ErrorContext(ctx, "failed to store contact submission",
			logging.Err(err))
		return p.finish(span, storeFailureResult())
	}

	span.SetAttributes(attribute.String("contact.submission_id", sub.ID))
	slog.InfoContext(ctx, "contact submission stored",
		slog.String("submission_id", sub.ID),
		slog.Int("message_length", len([]rune(sub.Message))))

	p.dispatcher.Dispatch(ctx, sub)

	return p.finish(span, successResult(in))
}

func (p *Pipeline) finish(span trace.Span, r Result) Result {
	outcome := r.Outcome()
	span.SetAttributes(attribute.String("contact.result", outcome))
	submissionsTotal.WithLabelValues(outcome).Inc()
	return r
}
