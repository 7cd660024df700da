package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"contact-pipeline/internal/domain/entity"
)

// EmailSender delivers one email. SendGrid and SES implement it.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a plain-text email with an optional reply-to address.
type EmailMessage struct {
	To          string
	Subject     string
	Body        string
	ReplyTo     string
	ReplyToName string
}

// EmailNotifier mails each summary to the site owner. Replies go to the
// person who filled in the form.
type EmailNotifier struct {
	sender EmailSender
	to     string
}

// NewEmailNotifier returns an error when sender or recipient is missing.
func NewEmailNotifier(sender EmailSender, to string) (*EmailNotifier, error) {
	if sender == nil {
		return nil, errors.New("email notifier: sender is nil")
	}
	if to == "" {
		return nil, errors.New("email notifier: recipient is empty")
	}
	return &EmailNotifier{sender: sender, to: to}, nil
}

// NotifySummary sends the summary email.
func (e *EmailNotifier) NotifySummary(ctx context.Context, sub *entity.Submission, summary entity.Summary) error {
	msg := NewMessage(sub, summary)
	err := e.sender.Send(ctx, EmailMessage{
		To:          e.to,
		Subject:     msg.Subject,
		Body:        msg.PlainBody(),
		ReplyTo:     msg.Email,
		ReplyToName: msg.Name,
	})
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}
	slog.Info("summary email sent",
		slog.String("submission_id", sub.ID),
		slog.String("to", e.to))
	return nil
}

// Name returns "email".
func (e *EmailNotifier) Name() string {
	return "email"
}
