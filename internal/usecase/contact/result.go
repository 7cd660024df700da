package contact

import (
	"fmt"

	"contact-pipeline/internal/domain/entity"
)

// Messages shown to the person who submitted the form.
const (
	MsgFixErrors  = "Please fix the errors below."
	MsgUnexpected = "An unexpected error occurred. Please try again."
	msgThanks     = "Thanks, %s! Your message has been received."
)

// Result is what the contact form renders after a submission attempt.
// Fields and Issues are set only when validation failed.
type Result struct {
	Message string            `json:"message" example:"Thanks, Jo! Your message has been received."`
	Success bool              `json:"success" example:"true"`
	Fields  *entity.RawFields `json:"fields,omitempty"`
	Issues  []string          `json:"issues,omitempty"`
}

func successResult(in entity.SubmissionInput) Result {
	return Result{Message: fmt.Sprintf(msgThanks, in.Name), Success: true}
}

func validationResult(f *ValidationFailure) Result {
	fields := f.Fields
	return Result{
		Message: MsgFixErrors,
		Success: false,
		Fields:  &fields,
		Issues:  f.Issues.Messages(),
	}
}

func storeFailureResult() Result {
	return Result{Message: MsgUnexpected, Success: false}
}

// Outcome classifies a Result for metrics and HTTP status mapping.
func (r Result) Outcome() string {
	switch {
	case r.Success:
		return "success"
	case r.Issues != nil:
		return "validation_failed"
	default:
		return "store_failed"
	}
}
