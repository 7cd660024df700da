package summarizer

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/resilience/circuitbreaker"
)

// OpenAI summarizes with the Chat Completions API.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
	call      *guardedCall
}

// NewOpenAI builds an OpenAI summarizer.
func NewOpenAI(cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	o := &OpenAI{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.model(),
		maxTokens: cfg.MaxTokens,
	}
	o.call = newGuardedCall(TypeOpenAI, circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()), cfg.Timeout, o.generate)
	return o
}

// Summarize implements Summarizer.
func (o *OpenAI) Summarize(ctx context.Context, in entity.SubmissionInput) (entity.Summary, error) {
	return o.call.summarize(ctx, in)
}

func (o *OpenAI) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
