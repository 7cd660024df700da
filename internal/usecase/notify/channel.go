package notify

import (
	"context"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/infra/notifier"
)

// Channel is one destination for submission summaries.
type Channel interface {
	// Name is used as the metrics label and in logs.
	Name() string

	// IsEnabled reports whether the channel is configured to receive summaries.
	IsEnabled() bool

	// Send delivers summary for sub.
	Send(ctx context.Context, sub *entity.Submission, summary entity.Summary) error
}

type notifierChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewChannel adapts a notifier to the Channel interface.
func NewChannel(n notifier.Notifier, enabled bool) Channel {
	return &notifierChannel{notifier: n, enabled: enabled && n != nil}
}

func (c *notifierChannel) Name() string {
	return c.notifier.Name()
}

func (c *notifierChannel) IsEnabled() bool {
	return c.enabled
}

func (c *notifierChannel) Send(ctx context.Context, sub *entity.Submission, summary entity.Summary) error {
	return c.notifier.NotifySummary(ctx, sub, summary)
}
