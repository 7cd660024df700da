package contact

import (
	"context"
	"fmt"
	"sort"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/repository"
)

// Viewer lists stored submissions for the site owner.
type Viewer struct {
	Repo repository.SubmissionRepository
}

// List returns every stored submission, newest first. Equal timestamps are
// ordered by ID. An empty store yields an empty, non-nil slice.
func (v *Viewer) List(ctx context.Context) ([]*entity.Submission, error) {
	subs, err := v.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if subs == nil {
		return []*entity.Submission{}, nil
	}

	sort.SliceStable(subs, func(i, j int) bool {
		a, b := subs[i].SubmissionDate, subs[j].SubmissionDate
		if !a.Equal(b) {
			return a.After(b)
		}
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

// Get returns one submission by ID.
func (v *Viewer) Get(ctx context.Context, id string) (*entity.Submission, error) {
	if id == "" {
		return nil, ErrInvalidSubmissionID
	}
	sub, err := v.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

// Count returns the number of stored submissions.
func (v *Viewer) Count(ctx context.Context) (int64, error) {
	n, err := v.Repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}
