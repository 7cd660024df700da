// Package postgres implements the submission store on PostgreSQL through the
// pgx stdlib driver. Every call goes through the database circuit breaker.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/observability/metrics"
	"contact-pipeline/internal/repository"
	"contact-pipeline/internal/resilience/circuitbreaker"

	"github.com/google/uuid"
)

type SubmissionRepo struct {
	db *circuitbreaker.DBCircuitBreaker
}

func NewSubmissionRepo(db *sql.DB) repository.SubmissionRepository {
	return &SubmissionRepo{db: circuitbreaker.NewDBCircuitBreaker(db)}
}

// NewSubmissionRepoWithBreaker shares an existing breaker, so health checks
// and the store trip together.
func NewSubmissionRepoWithBreaker(db *circuitbreaker.DBCircuitBreaker) repository.SubmissionRepository {
	return &SubmissionRepo{db: db}
}

// Append inserts one row. The timestamp comes from the database clock.
func (repo *SubmissionRepo) Append(ctx context.Context, in entity.SubmissionInput) (*entity.Submission, error) {
	defer observe("append", time.Now())

	const query = `
INSERT INTO contact_form_submissions (id, name, email, message, submission_date)
VALUES ($1, $2, $3, $4, now())
RETURNING submission_date`

	sub := &entity.Submission{
		ID:      uuid.NewString(),
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
	}

	rows, err := repo.db.QueryContext(ctx, query, sub.ID, sub.Name, sub.Email, sub.Message)
	if err != nil {
		return nil, entity.Unavailable("Append", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, entity.Unavailable("Append", err)
		}
		return nil, entity.Unavailable("Append", errors.New("insert returned no row"))
	}
	if err := rows.Scan(&sub.SubmissionDate); err != nil {
		return nil, entity.Unavailable("Append: Scan", err)
	}
	return sub, nil
}

func (repo *SubmissionRepo) List(ctx context.Context) ([]*entity.Submission, error) {
	defer observe("list", time.Now())

	const query = `
SELECT id, name, email, message, submission_date
FROM contact_form_submissions
ORDER BY submission_date DESC, id`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, entity.Unavailable("List", err)
	}
	defer func() { _ = rows.Close() }()

	subs := make([]*entity.Submission, 0, 32)
	for rows.Next() {
		var s entity.Submission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Message, &s.SubmissionDate); err != nil {
			return nil, entity.Unavailable("List: Scan", err)
		}
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.Unavailable("List", err)
	}
	return subs, nil
}

func (repo *SubmissionRepo) Get(ctx context.Context, id string) (*entity.Submission, error) {
	defer observe("get", time.Now())

	if _, err := uuid.Parse(id); err != nil {
		// not a key this table can hold
		return nil, nil
	}

	const query = `
SELECT id, name, email, message, submission_date
FROM contact_form_submissions
WHERE id = $1`

	rows, err := repo.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, entity.Unavailable("Get", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, entity.Unavailable("Get", err)
		}
		return nil, nil
	}
	var s entity.Submission
	if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Message, &s.SubmissionDate); err != nil {
		return nil, entity.Unavailable("Get: Scan", err)
	}
	return &s, nil
}

func (repo *SubmissionRepo) Count(ctx context.Context) (int64, error) {
	defer observe("count", time.Now())

	const query = `SELECT COUNT(*) FROM contact_form_submissions`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return 0, entity.Unavailable("Count", err)
	}
	defer func() { _ = rows.Close() }()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, entity.Unavailable("Count: Scan", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, entity.Unavailable("Count", err)
	}
	return n, nil
}

func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}
