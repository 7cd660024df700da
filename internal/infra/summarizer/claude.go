package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/resilience/circuitbreaker"
)

// Claude summarizes with Anthropic's Messages API.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	call      *guardedCall
}

// NewClaude builds a Claude summarizer. The SDK's own retries are disabled:
// a summary is attempted once.
func NewClaude(cfg Config) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	c := &Claude{
		client:    anthropic.NewClient(opts...),
		model:     cfg.model(),
		maxTokens: int64(cfg.MaxTokens),
	}
	c.call = newGuardedCall(TypeClaude, circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()), cfg.Timeout, c.generate)
	return c
}

// Summarize implements Summarizer.
func (c *Claude) Summarize(ctx context.Context, in entity.SubmissionInput) (entity.Summary, error) {
	return c.call.summarize(ctx, in)
}

func (c *Claude) generate(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}
	if len(message.Content) == 0 {
		return "", errors.New("claude api returned empty response")
	}

	var b strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}
