package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// Provider names accepted in Config.Type.
const (
	TypeGemini = "gemini"
	TypeClaude = "claude"
	TypeOpenAI = "openai"
	TypeNoOp   = "noop"
)

// Config selects and tunes a provider.
type Config struct {
	// Type is one of gemini, claude, openai or noop
	Type string

	APIKey string

	// Model overrides the provider default when non-empty
	Model string

	// MaxTokens bounds the reply; one sentence needs very little
	MaxTokens int

	// Timeout applies to each provider call
	Timeout time.Duration

	// BaseURL points Claude or OpenAI at a proxy or test server
	BaseURL string
}

// DefaultModel returns the model used when Config.Model is empty.
func DefaultModel(typ string) string {
	switch typ {
	case TypeGemini:
		return "gemini-2.5-flash"
	case TypeClaude:
		return string(anthropic.ModelClaudeSonnet4_5_20250929)
	case TypeOpenAI:
		return openai.GPT4oMini
	default:
		return ""
	}
}

// Validate checks the fields the selected provider needs.
func (c Config) Validate() error {
	switch c.Type {
	case TypeNoOp:
		return nil
	case TypeGemini, TypeClaude, TypeOpenAI:
	default:
		return fmt.Errorf("unknown summarizer type %q", c.Type)
	}

	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%s summarizer requires an API key", c.Type)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

func (c Config) model() string {
	if c.Model != "" {
		return c.Model
	}
	return DefaultModel(c.Type)
}

// New builds the provider described by cfg. Providers holding network
// clients also implement io.Closer.
func New(ctx context.Context, cfg Config) (Summarizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("summarizer config: %w", err)
	}

	var (
		s   Summarizer
		err error
	)
	switch cfg.Type {
	case TypeGemini:
		s, err = NewGemini(ctx, cfg)
	case TypeClaude:
		s = NewClaude(cfg)
	case TypeOpenAI:
		s = NewOpenAI(cfg)
	default:
		s = NewNoOp()
	}
	if err != nil {
		return nil, err
	}

	slog.Info("summarizer initialized",
		slog.String("type", cfg.Type),
		slog.String("model", cfg.model()),
		slog.Duration("timeout", cfg.Timeout))
	return s, nil
}
