package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"contact-pipeline/internal/config"
	"contact-pipeline/internal/infra/notifier"
	"contact-pipeline/internal/infra/queue"
	"contact-pipeline/internal/infra/summarizer"
	"contact-pipeline/internal/usecase/notify"

	"github.com/redis/go-redis/v9"
)

// Summary is everything needed to run summary jobs.
type Summary struct {
	Summarizer summarizer.Summarizer
	Runner     *notify.Runner
}

// Close releases provider clients that hold connections.
func (s *Summary) Close() error {
	if c, ok := s.Summarizer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NewSummary builds the summarizer and the notification channels.
func NewSummary(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*Summary, error) {
	s, err := summarizer.New(ctx, cfg.SummarizerConfig())
	if err != nil {
		return nil, err
	}
	channels, err := Channels(ctx, cfg, logger)
	if err != nil {
		if c, ok := s.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return &Summary{Summarizer: s, Runner: notify.NewRunner(s, channels)}, nil
}

// Channels returns the log channel plus every configured webhook and email
// channel.
func Channels(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) ([]notify.Channel, error) {
	channels := []notify.Channel{notify.NewChannel(notifier.NewLogNotifier(logger), true)}

	if cfg.SlackEnabled {
		channels = append(channels, notify.NewChannel(notifier.NewSlackNotifier(notifier.SlackConfig{
			Enabled:    true,
			WebhookURL: cfg.SlackWebhookURL,
			Timeout:    cfg.WebhookTimeout,
		}), true))
	}
	if cfg.DiscordEnabled {
		channels = append(channels, notify.NewChannel(notifier.NewDiscordNotifier(notifier.DiscordConfig{
			Enabled:    true,
			WebhookURL: cfg.DiscordWebhookURL,
			Timeout:    cfg.WebhookTimeout,
		}), true))
	}

	sender, err := emailSender(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sender != nil {
		email, err := notifier.NewEmailNotifier(sender, cfg.EmailTo)
		if err != nil {
			return nil, err
		}
		channels = append(channels, notify.NewChannel(email, true))
	}

	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name())
	}
	logger.Info("notification channels configured", slog.Any("channels", names))
	return channels, nil
}

func emailSender(ctx context.Context, cfg *config.AppConfig) (notifier.EmailSender, error) {
	switch cfg.EmailProvider {
	case "":
		return nil, nil
	case config.EmailSendGrid:
		s := notifier.NewSendGridSender(notifier.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
		if s == nil {
			return nil, errors.New("sendgrid: SENDGRID_API_KEY is empty")
		}
		return s, nil
	case config.EmailSES:
		s, err := notifier.NewSESSender(ctx, notifier.SESConfig{
			Region:    cfg.AWSRegion,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
		if err != nil {
			return nil, fmt.Errorf("ses: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}

// NewDispatcher returns the dispatcher cfg.SummaryQueue selects. The
// returned Redis client, if any, must be closed after the dispatcher is
// shut down.
func NewDispatcher(ctx context.Context, cfg *config.AppConfig, runner *notify.Runner) (notify.Dispatcher, *redis.Client, error) {
	switch cfg.SummaryQueue {
	case config.QueueInline:
		return notify.NewInlineDispatcher(runner, cfg.DispatchConfig()), nil, nil
	case config.QueueRedis:
		rdb, err := queue.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return notify.NewQueueDispatcher(queue.NewRedisQueue(rdb, cfg.QueueKey)), rdb, nil
	default:
		return nil, nil, fmt.Errorf("unknown summary queue %q", cfg.SummaryQueue)
	}
}
