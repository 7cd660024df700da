package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDiscordPayload(t *testing.T) {
	sub := testSubmission()
	sub.Message = strings.Repeat("x", 3000)

	payload := buildDiscordPayload(NewMessage(sub, testSummary()))

	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "New contact form submission from Jo", embed.Title)
	assert.Equal(t, "Jo is asking for a website quote.", embed.Description)
	assert.Equal(t, discordEmbedColor, embed.Color)
	assert.Equal(t, sub.ID, embed.Footer.Text)
	assert.Equal(t, "2025-11-15T12:00:00Z", embed.Timestamp)

	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "Name", embed.Fields[0].Name)
	assert.True(t, embed.Fields[0].Inline)
	assert.Equal(t, "Message", embed.Fields[2].Name)
	assert.LessOrEqual(t, len([]rune(embed.Fields[2].Value)), maxEmbedFieldLength)
}

func TestDiscordNotifier_NotifySummary(t *testing.T) {
	t.Run("posts embed", func(t *testing.T) {
		var got DiscordWebhookPayload
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		n := NewDiscordNotifier(DiscordConfig{Enabled: true, WebhookURL: srv.URL, Timeout: time.Second})

		require.NoError(t, n.NotifySummary(context.Background(), testSubmission(), testSummary()))
		require.Len(t, got.Embeds, 1)
		assert.Equal(t, "discord", n.Name())
	})

	t.Run("retries after rate limit", func(t *testing.T) {
		var attempts atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if attempts.Add(1) == 1 {
				w.Header().Set("Retry-After", "0.001")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		n := NewDiscordNotifier(DiscordConfig{Enabled: true, WebhookURL: srv.URL, Timeout: time.Second})
		n.client.retryConfig = fastRetry()

		require.NoError(t, n.NotifySummary(context.Background(), testSubmission(), testSummary()))
		assert.Equal(t, int32(2), attempts.Load())
	})
}
