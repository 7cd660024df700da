package notifier

import (
	"context"
	"fmt"
	"net/http"

	"contact-pipeline/internal/resilience/retry"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string

	// BaseURL overrides the mail send endpoint, used by tests
	BaseURL string
}

// SendGridSender sends email through the SendGrid v3 API.
type SendGridSender struct {
	cfg         SendGridConfig
	retryConfig retry.Config
}

// NewSendGridSender returns nil when no API key is configured.
func NewSendGridSender(cfg SendGridConfig) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.FromName == "" {
		cfg.FromName = "Contact Form"
	}
	return &SendGridSender{cfg: cfg, retryConfig: retry.WebhookConfig()}
}

// Send sends msg. A 429 or 5xx response is retried once.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")
	if msg.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail(msg.ReplyToName, msg.ReplyTo))
	}

	return retry.WithBackoff(ctx, s.retryConfig, func() error {
		// the client keeps the request body on itself, so one per send
		client := sendgrid.NewSendClient(s.cfg.APIKey)
		if s.cfg.BaseURL != "" {
			client.BaseURL = s.cfg.BaseURL
		}

		resp, err := client.SendWithContext(ctx, message)
		if err != nil {
			return fmt.Errorf("sendgrid send: %w", err)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Body}
		}
		return nil
	})
}

var _ EmailSender = (*SendGridSender)(nil)
