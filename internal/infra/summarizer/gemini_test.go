package summarizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contact-pipeline/internal/domain/entity"
)

type fakeModel struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.prompt = string(t)
		}
	}
	return f.resp, f.err
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: parts}}},
	}
}

func TestGemini_Summarize(t *testing.T) {
	model := &fakeModel{resp: textResponse(genai.Text(`{"summary": `), genai.Text(`"Jo is testing the form."}`))}
	g := newGemini(model, Config{Timeout: time.Second})
	g.call.metrics = &fakeMetrics{}

	got, err := g.Summarize(context.Background(), jo)

	require.NoError(t, err)
	assert.Equal(t, "Jo is testing the form.", got.Summary)
	assert.Equal(t, BuildPrompt(jo), model.prompt)
	assert.NoError(t, g.Close())
}

func TestGemini_Summarize_Failures(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"api error", &fakeModel{err: errors.New("quota exceeded")}},
		{"no candidates", &fakeModel{resp: &genai.GenerateContentResponse{}}},
		{"nil content", &fakeModel{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}}},
		{"no text parts", &fakeModel{resp: textResponse(genai.Blob{MIMEType: "image/png"})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGemini(tt.model, Config{Timeout: time.Second})
			g.call.metrics = &fakeMetrics{}

			_, err := g.Summarize(context.Background(), jo)

			assert.ErrorIs(t, err, entity.ErrSummarization)
		})
	}
}
