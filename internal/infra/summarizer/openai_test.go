package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-pipeline/internal/domain/entity"
)

func TestOpenAI_Summarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, BuildPrompt(jo), req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{
				"message": {"role": "assistant", "content": "{\"summary\": \"Jo says hello.\"}"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 8, "total_tokens": 48}
		}`))
	}))
	defer srv.Close()

	o := NewOpenAI(Config{Type: TypeOpenAI, APIKey: "sk-test", MaxTokens: 64, Timeout: 5 * time.Second, BaseURL: srv.URL + "/v1"})
	o.call.metrics = &fakeMetrics{}

	got, err := o.Summarize(context.Background(), jo)

	require.NoError(t, err)
	assert.Equal(t, "Jo says hello.", got.Summary)
}

func TestOpenAI_Summarize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`},
		{"rate limited", http.StatusTooManyRequests, `{"error": {"message": "Rate limit reached", "type": "rate_limit_error"}}`},
		{"no choices", http.StatusOK, `{"choices": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			o := NewOpenAI(Config{Type: TypeOpenAI, APIKey: "sk-test", MaxTokens: 64, Timeout: 5 * time.Second, BaseURL: srv.URL + "/v1"})
			o.call.metrics = &fakeMetrics{}

			_, err := o.Summarize(context.Background(), jo)

			assert.ErrorIs(t, err, entity.ErrSummarization)
		})
	}
}
