package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"contact-pipeline/internal/config"
	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/infra/summarizer"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func channelNames(t *testing.T, cfg *config.AppConfig) []string {
	t.Helper()
	channels, err := Channels(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name())
	}
	return names
}

func TestChannels(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AppConfig
		want []string
	}{
		{
			name: "log only",
			cfg:  config.AppConfig{},
			want: []string{"log"},
		},
		{
			name: "webhooks",
			cfg: config.AppConfig{
				SlackEnabled:      true,
				SlackWebhookURL:   "https://hooks.slack.com/services/T/B/X",
				DiscordEnabled:    true,
				DiscordWebhookURL: "https://discord.com/api/webhooks/1/abc",
				WebhookTimeout:    time.Second,
			},
			want: []string{"log", "slack", "discord"},
		},
		{
			name: "sendgrid email",
			cfg: config.AppConfig{
				EmailProvider:  config.EmailSendGrid,
				EmailTo:        "ops@example.com",
				EmailFrom:      "noreply@example.com",
				SendGridAPIKey: "SG.test",
			},
			want: []string{"log", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, channelNames(t, &tt.cfg)); diff != "" {
				t.Errorf("channels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChannels_EmailErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AppConfig
	}{
		{
			name: "sendgrid without key",
			cfg:  config.AppConfig{EmailProvider: config.EmailSendGrid, EmailTo: "ops@example.com"},
		},
		{
			name: "sendgrid without recipient",
			cfg:  config.AppConfig{EmailProvider: config.EmailSendGrid, SendGridAPIKey: "SG.test"},
		},
		{
			name: "unknown provider",
			cfg:  config.AppConfig{EmailProvider: "mailgun", EmailTo: "ops@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Channels(context.Background(), &tt.cfg, discardLogger())
			assert.Error(t, err)
		})
	}
}

func TestNewSummary_NoOp(t *testing.T) {
	cfg := &config.AppConfig{SummarizerType: summarizer.TypeNoOp}
	s, err := NewSummary(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NotNil(t, s.Runner)
	health := s.Runner.ChannelHealth()
	require.Len(t, health, 1)
	assert.Equal(t, "log", health[0].Name)
}

func TestNewSummary_InvalidProvider(t *testing.T) {
	cfg := &config.AppConfig{SummarizerType: summarizer.TypeClaude}
	_, err := NewSummary(context.Background(), cfg, discardLogger())
	assert.Error(t, err)
}

func TestNewDispatcher_Inline(t *testing.T) {
	cfg := &config.AppConfig{
		SummaryQueue:        config.QueueInline,
		SummarizerType:      summarizer.TypeNoOp,
		NotifyMaxConcurrent: 2,
		SummaryTimeout:      time.Second,
	}
	s, err := NewSummary(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	d, rdb, err := NewDispatcher(context.Background(), cfg, s.Runner)
	require.NoError(t, err)
	assert.Nil(t, rdb)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Shutdown(ctx))
}

func TestNewDispatcher_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.AppConfig{
		SummaryQueue: config.QueueRedis,
		RedisURL:     "redis://" + mr.Addr(),
		QueueKey:     "test:jobs",
	}

	d, rdb, err := NewDispatcher(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, rdb)
	t.Cleanup(func() { _ = rdb.Close() })

	d.Dispatch(context.Background(), &entity.Submission{
		ID:             "sub-1",
		Name:           "Jo",
		Email:          "jo@example.com",
		Message:        "Hello there, testing.",
		SubmissionDate: time.Unix(1718000000, 0).UTC(),
	})
	require.NoError(t, d.Shutdown(context.Background()))

	n, err := rdb.LLen(context.Background(), "test:jobs").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewDispatcher_Unknown(t *testing.T) {
	_, _, err := NewDispatcher(context.Background(), &config.AppConfig{SummaryQueue: "kafka"}, nil)
	assert.Error(t, err)
}
