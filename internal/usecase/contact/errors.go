// Package contact implements the contact form use cases: validating a raw
// submission, storing it, handing it to the summary step, and listing what
// has been stored for the site owner.
package contact

import "errors"

// Sentinel errors for contact use case operations.
var (
	// ErrSubmissionNotFound indicates that no submission has the requested ID.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrInvalidSubmissionID indicates an empty submission ID.
	ErrInvalidSubmissionID = errors.New("invalid submission ID")
)
