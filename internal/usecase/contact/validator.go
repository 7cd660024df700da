package contact

import (
	"errors"

	"contact-pipeline/internal/domain/entity"
)

// ValidationFailure is returned by Validate when at least one field is
// invalid. Issues are in field order: name, email, message.
type ValidationFailure struct {
	Issues entity.ValidationErrors
	Fields entity.RawFields
}

// Error implements the error interface.
func (f *ValidationFailure) Error() string {
	return f.Issues.Error()
}

// Unwrap exposes the issue list so errors.Is(err, entity.ErrValidationFailed) holds.
func (f *ValidationFailure) Unwrap() error {
	return f.Issues
}

// Validate checks raw against the field rules and, when every rule holds,
// returns the typed input. Values are checked and kept exactly as given,
// whitespace included. Every violated rule is reported, not only the first.
func Validate(raw entity.RawFields) (entity.SubmissionInput, *ValidationFailure) {
	in := entity.SubmissionInput{
		Name:    raw.Name,
		Email:   raw.Email,
		Message: raw.Message,
	}

	var issues entity.ValidationErrors
	for _, err := range []error{
		entity.ValidateName(in.Name),
		entity.ValidateEmail(in.Email),
		entity.ValidateMessage(in.Message),
	} {
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			issues = append(issues, ve)
		}
	}

	if len(issues) > 0 {
		return entity.SubmissionInput{}, &ValidationFailure{Issues: issues, Fields: raw}
	}
	return in, nil
}
