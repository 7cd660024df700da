// Package entity defines the core domain entities of the contact pipeline.
// It contains the Submission record written by the contact form, the
// ephemeral Summary produced for operators, and the domain-specific errors.
package entity

import (
	"strings"
	"time"
)

// CollectionName is the document collection that holds contact form submissions.
const CollectionName = "contactFormSubmissions"

// Submission is one stored contact-form message.
// ID and SubmissionDate are assigned by the store and never change afterwards.
type Submission struct {
	ID             string
	Name           string
	Email          string
	Message        string
	SubmissionDate time.Time
}

// Timestamp is the seconds/nanoseconds form of a store timestamp.
type Timestamp struct {
	Seconds     int64 `json:"seconds" example:"1718000000"`
	Nanoseconds int32 `json:"nanoseconds" example:"120000000"`
}

// Timestamp returns SubmissionDate split into seconds and nanoseconds.
func (s *Submission) Timestamp() Timestamp {
	return TimestampOf(s.SubmissionDate)
}

// TimestampOf converts t into a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{
		Seconds:     t.Unix(),
		Nanoseconds: int32(t.Nanosecond()), // #nosec G115 -- Nanosecond() is always < 1e9
	}
}

// SubmissionInput is a validated submission that has not been stored yet.
// Only the contact validator produces values of this type.
type SubmissionInput struct {
	Name    string
	Email   string
	Message string
}

// RawFields holds the form values exactly as the client sent them.
// A missing field is represented by an empty string.
type RawFields struct {
	Name    string `json:"name" example:"Jo"`
	Email   string `json:"email" example:"jo@example.com"`
	Message string `json:"message" example:"Hello there, testing."`
}

// Summary is a one-sentence description of a submission.
// It is never persisted.
type Summary struct {
	Summary string `json:"summary"`
}

// IsEmpty reports whether the summary carries no text.
func (s Summary) IsEmpty() bool {
	return strings.TrimSpace(s.Summary) == ""
}

// ContactDetails is the public contact information shown next to the form.
type ContactDetails struct {
	Email string `json:"email" example:"hello@example.com"`
	Phone string `json:"phone" example:"+81-90-0000-0000"`
}
