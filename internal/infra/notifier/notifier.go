// Package notifier delivers generated submission summaries to the places
// where a site owner reads them.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/utils/text"
)

// Notifier sends a summary of one stored submission to a single channel.
type Notifier interface {
	// NotifySummary delivers summary for sub. Implementations must honour ctx.
	NotifySummary(ctx context.Context, sub *entity.Submission, summary entity.Summary) error

	// Name identifies the channel in logs and metrics.
	Name() string
}

const (
	maxSummaryLength = 2000
	maxMessageLength = 1000
	maxNameLength    = 150
)

// Message is the channel-neutral rendering of a summary notification.
type Message struct {
	Subject      string
	Summary      string
	Name         string
	Email        string
	Excerpt      string
	SubmissionID string
	SubmittedAt  time.Time
}

// NewMessage renders sub and summary into a Message with every field
// clipped to a length that all channels accept.
func NewMessage(sub *entity.Submission, summary entity.Summary) Message {
	name := text.Truncate(sub.Name, maxNameLength)
	return Message{
		Subject:      fmt.Sprintf("New contact form submission from %s", name),
		Summary:      text.Truncate(strings.TrimSpace(summary.Summary), maxSummaryLength),
		Name:         name,
		Email:        sub.Email,
		Excerpt:      text.Truncate(sub.Message, maxMessageLength),
		SubmissionID: sub.ID,
		SubmittedAt:  sub.SubmissionDate.UTC(),
	}
}

// PlainBody is the text/plain rendering used by email and log channels.
func (m Message) PlainBody() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary: %s\n\n", m.Summary)
	fmt.Fprintf(&b, "Name: %s\n", m.Name)
	fmt.Fprintf(&b, "Email: %s\n", m.Email)
	fmt.Fprintf(&b, "Submitted: %s\n", m.SubmittedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "ID: %s\n\n", m.SubmissionID)
	b.WriteString(m.Excerpt)
	return b.String()
}
