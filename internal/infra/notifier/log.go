package notifier

import (
	"context"
	"log/slog"

	"contact-pipeline/internal/domain/entity"
)

// LogNotifier writes each summary to a structured logger. It is the
// default channel and never fails.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier falls back to slog.Default when logger is nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// NotifySummary logs the summary at info level.
func (l *LogNotifier) NotifySummary(ctx context.Context, sub *entity.Submission, summary entity.Summary) error {
	l.logger.InfoContext(ctx, "submission summary",
		slog.String("submission_id", sub.ID),
		slog.String("name", sub.Name),
		slog.String("summary", summary.Summary))
	return nil
}

// Name returns "log".
func (l *LogNotifier) Name() string {
	return "log"
}
