package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")

	// ErrStoreUnavailable indicates that the submission store could not be
	// reached or rejected the write.
	ErrStoreUnavailable = errors.New("submission store unavailable")

	// ErrSummarization indicates that the summary provider failed or timed out.
	ErrSummarization = errors.New("summarization failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors is an ordered list of field violations.
type ValidationErrors []*ValidationError

// Error joins every violation into one line.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (v ValidationErrors) Unwrap() error {
	return ErrValidationFailed
}

// Messages returns the human-readable messages in order.
func (v ValidationErrors) Messages() []string {
	out := make([]string, 0, len(v))
	for _, e := range v {
		out = append(out, e.Message)
	}
	return out
}

// Unavailable wraps a persistence failure so callers can match ErrStoreUnavailable
// while the cause stays available for logging.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
