package repository

import (
	"context"

	"contact-pipeline/internal/domain/entity"
)

// SubmissionRepository is the append-only store for contact submissions.
// Implementations wrap every persistence failure with entity.ErrStoreUnavailable.
type SubmissionRepository interface {
	// Append creates one new record with a store-assigned ID and timestamp.
	// Identical inputs produce distinct records.
	Append(ctx context.Context, in entity.SubmissionInput) (*entity.Submission, error)
	// List returns every stored submission, newest first.
	List(ctx context.Context) ([]*entity.Submission, error)
	// Get returns (nil, nil) when no submission has the given ID.
	Get(ctx context.Context, id string) (*entity.Submission, error)
	Count(ctx context.Context) (int64, error)
}
