package summarizer

import (
	"context"
	"fmt"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/utils/text"
)

// NoOp builds a summary locally without calling any model.
// It is the default when no provider key is configured.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns "<name> (<email>) wrote: <start of message>".
func (n *NoOp) Summarize(_ context.Context, in entity.SubmissionInput) (entity.Summary, error) {
	excerpt := text.Truncate(text.PlainText(in.Message), 120)
	return entity.Summary{Summary: fmt.Sprintf("%s (%s) wrote: %s", in.Name, in.Email, excerpt)}, nil
}
