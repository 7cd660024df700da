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

// DiscordConfig holds configuration for the Discord webhook channel.
type DiscordConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
}

// DiscordNotifier posts summaries to a Discord channel as embeds.
type DiscordNotifier struct {
	client *webhookClient
}

// NewDiscordNotifier creates a DiscordNotifier limited to 30 messages a minute.
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		client: newWebhookClient(config.WebhookURL, config.Timeout, NewRateLimiter(0.5, 3)),
	}
}

// DiscordWebhookPayload is the body of a Discord webhook request.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed is one rich embed.
type DiscordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Color       int                 `json:"color"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      DiscordEmbedFooter  `json:"footer"`
	Timestamp   string              `json:"timestamp"`
}

// DiscordEmbedField is a name/value pair shown inside an embed.
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DiscordEmbedFooter is the small text under an embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	discordEmbedColor   = 0x3498DB
	maxEmbedTitleLength = 256
	maxEmbedDescLength  = 4096
	maxEmbedFieldLength = 1024
)

func buildDiscordPayload(msg Message) DiscordWebhookPayload {
	return DiscordWebhookPayload{
		Embeds: []DiscordEmbed{
			{
				Title:       text.Truncate(msg.Subject, maxEmbedTitleLength),
				Description: text.Truncate(msg.Summary, maxEmbedDescLength),
				Color:       discordEmbedColor,
				Fields: []DiscordEmbedField{
					{Name: "Name", Value: text.Truncate(msg.Name, maxEmbedFieldLength), Inline: true},
					{Name: "Email", Value: text.Truncate(msg.Email, maxEmbedFieldLength), Inline: true},
					{Name: "Message", Value: text.Truncate(msg.Excerpt, maxEmbedFieldLength)},
				},
				Footer:    DiscordEmbedFooter{Text: msg.SubmissionID},
				Timestamp: msg.SubmittedAt.Format(time.RFC3339),
			},
		},
	}
}

// NotifySummary posts the summary to Discord.
func (d *DiscordNotifier) NotifySummary(ctx context.Context, sub *entity.Submission, summary entity.Summary) error {
	requestID := uuid.New().String()
	start := time.Now()

	if err := d.client.post(ctx, buildDiscordPayload(NewMessage(sub, summary))); err != nil {
		slog.Error("Discord notification failed",
			slog.String("request_id", requestID),
			slog.String("submission_id", sub.ID),
			logging.Err(err))
		return fmt.Errorf("discord: %w", err)
	}

	slog.Info("Discord notification sent",
		slog.String("request_id", requestID),
		slog.String("submission_id", sub.ID),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Name returns "discord".
func (d *DiscordNotifier) Name() string {
	return "discord"
}
