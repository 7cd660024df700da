// Package memory provides a process-local submission store used when no
// database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/repository"

	"github.com/google/uuid"
)

// SubmissionRepo keeps submissions in a slice guarded by a RWMutex.
// Timestamps are strictly increasing within one repo even if the clock
// stalls or steps backwards.
type SubmissionRepo struct {
	mu    sync.RWMutex
	subs  []entity.Submission
	now   func() time.Time
	last  time.Time
	fails error
}

// Option configures a SubmissionRepo.
type Option func(*SubmissionRepo)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *SubmissionRepo) { r.now = now }
}

func NewSubmissionRepo(opts ...Option) *SubmissionRepo {
	r := &SubmissionRepo{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ repository.SubmissionRepository = (*SubmissionRepo)(nil)

// SetUnavailable makes every following call fail with err wrapped in
// entity.ErrStoreUnavailable. A nil err restores normal operation.
func (r *SubmissionRepo) SetUnavailable(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails = err
}

func (r *SubmissionRepo) Append(ctx context.Context, in entity.SubmissionInput) (*entity.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, entity.Unavailable("Append", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fails != nil {
		return nil, entity.Unavailable("Append", r.fails)
	}

	stamp := r.now().UTC()
	if !stamp.After(r.last) {
		stamp = r.last.Add(time.Nanosecond)
	}
	r.last = stamp

	sub := entity.Submission{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		Message:        in.Message,
		SubmissionDate: stamp,
	}
	r.subs = append(r.subs, sub)

	out := sub
	return &out, nil
}

func (r *SubmissionRepo) List(ctx context.Context) ([]*entity.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.fails != nil {
		return nil, entity.Unavailable("List", r.fails)
	}

	out := make([]*entity.Submission, 0, len(r.subs))
	for i := range r.subs {
		s := r.subs[i]
		out = append(out, &s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmissionDate.After(out[j].SubmissionDate)
	})
	return out, nil
}

func (r *SubmissionRepo) Get(ctx context.Context, id string) (*entity.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.fails != nil {
		return nil, entity.Unavailable("Get", r.fails)
	}
	for i := range r.subs {
		if r.subs[i].ID == id {
			s := r.subs[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *SubmissionRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.fails != nil {
		return 0, entity.Unavailable("Count", r.fails)
	}
	return int64(len(r.subs)), nil
}
