package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/resilience/circuitbreaker"
)

// contentGenerator is the part of *genai.GenerativeModel this package uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini summarizes with Google's Gemini API. Replies are requested as JSON
// matching entity.Summary.
type Gemini struct {
	client *genai.Client
	model  contentGenerator
	call   *guardedCall
}

// NewGemini creates the client and configures the model once.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	model := client.GenerativeModel(cfg.model())
	model.SetMaxOutputTokens(int32(cfg.MaxTokens)) // #nosec G115 -- validated small positive value
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "A brief summary of the contact form submission.",
			},
		},
		Required: []string{"summary"},
	}

	g := newGemini(model, cfg)
	g.client = client
	return g, nil
}

func newGemini(model contentGenerator, cfg Config) *Gemini {
	g := &Gemini{model: model}
	g.call = newGuardedCall(TypeGemini, circuitbreaker.New(circuitbreaker.GeminiAPIConfig()), cfg.Timeout, g.generate)
	return g
}

// Summarize implements Summarizer.
func (g *Gemini) Summarize(ctx context.Context, in entity.SubmissionInput) (entity.Summary, error) {
	return g.call.summarize(ctx, in)
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("gemini returned empty content")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
