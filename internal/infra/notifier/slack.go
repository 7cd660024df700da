package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/observability/logging"
	"contact-pipeline/internal/utils/text"

	"github.com/google/uuid"
)

// SlackConfig holds configuration for the Slack incoming-webhook channel.
type SlackConfig struct {
	// Enabled indicates whether Slack notifications are enabled
	Enabled bool

	// WebhookURL is the Slack incoming webhook URL
	WebhookURL string

	// Timeout bounds a single HTTP request
	Timeout time.Duration
}

// SlackNotifier posts summaries to a Slack channel as Block Kit messages.
type SlackNotifier struct {
	client *webhookClient
}

// NewSlackNotifier creates a SlackNotifier. Slack allows roughly one
// webhook message per second per channel.
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		client: newWebhookClient(config.WebhookURL, config.Timeout, NewRateLimiter(1.0, 1)),
	}
}

// SlackWebhookPayload is the body of a Slack incoming-webhook request.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`   // Fallback text for notifications
	Blocks []SlackBlock `json:"blocks"` // Rich formatting blocks
}

// SlackBlock is a single Block Kit layout block.
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Fields   []SlackTextObject `json:"fields,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject is a mrkdwn or plain_text composition object.
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	maxSectionTextLength = 3000
	maxFallbackLength    = 150
)

func buildSlackPayload(msg Message) SlackWebhookPayload {
	return SlackWebhookPayload{
		Text: text.Truncate(fmt.Sprintf("%s: %s", msg.Subject, msg.Summary), maxFallbackLength),
		Blocks: []SlackBlock{
			{
				Type: "header",
				Text: &SlackTextObject{Type: "plain_text", Text: msg.Subject},
			},
			{
				Type: "section",
				Text: &SlackTextObject{
					Type: "mrkdwn",
					Text: text.Truncate(msg.Summary, maxSectionTextLength),
				},
				Fields: []SlackTextObject{
					{Type: "mrkdwn", Text: "*Name*\n" + msg.Name},
					{Type: "mrkdwn", Text: fmt.Sprintf("*Email*\n<mailto:%s|%s>", msg.Email, msg.Email)},
				},
			},
			{
				Type: "context",
				Elements: []SlackTextObject{
					{
						Type: "mrkdwn",
						Text: fmt.Sprintf("%s • %s", msg.SubmittedAt.Format(time.RFC3339), msg.SubmissionID),
					},
				},
			},
		},
	}
}

// NotifySummary posts the summary to Slack, retrying once on 5xx and 429.
func (s *SlackNotifier) NotifySummary(ctx context.Context, sub *entity.Submission, summary entity.Summary) error {
	requestID := uuid.New().String()
	start := time.Now()

	if err := s.client.post(ctx, buildSlackPayload(NewMessage(sub, summary))); err != nil {
		slog.Error("Slack notification failed",
			slog.String("request_id", requestID),
			slog.String("submission_id", sub.ID),
			logging.Err(err))
		return fmt.Errorf("slack: %w", err)
	}

	slog.Info("Slack notification sent",
		slog.String("request_id", requestID),
		slog.String("submission_id", sub.ID),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Name returns "slack".
func (s *SlackNotifier) Name() string {
	return "slack"
}
