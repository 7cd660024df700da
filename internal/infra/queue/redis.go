// Package queue moves summary jobs between the API and the worker through
// a Redis list.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"contact-pipeline/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the Redis list holding pending summary jobs.
const DefaultKey = "contact:summary_jobs"

// ErrEmpty is returned by Pop when no job arrived before the timeout.
var ErrEmpty = errors.New("queue: no job available")

// SummaryJob asks a worker to summarize one stored submission and notify
// the configured channels.
type SummaryJob struct {
	JobID          string    `json:"job_id"`
	SubmissionID   string    `json:"submission_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Message        string    `json:"message"`
	SubmissionDate time.Time `json:"submission_date"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}

// NewSummaryJob snapshots sub into a job with a fresh id.
func NewSummaryJob(sub *entity.Submission) SummaryJob {
	return SummaryJob{
		JobID:          uuid.New().String(),
		SubmissionID:   sub.ID,
		Name:           sub.Name,
		Email:          sub.Email,
		Message:        sub.Message,
		SubmissionDate: sub.SubmissionDate,
		EnqueuedAt:     time.Now().UTC(),
	}
}

// Submission rebuilds the submission the job was created from.
func (j SummaryJob) Submission() *entity.Submission {
	return &entity.Submission{
		ID:             j.SubmissionID,
		Name:           j.Name,
		Email:          j.Email,
		Message:        j.Message,
		SubmissionDate: j.SubmissionDate,
	}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// RedisQueue is a FIFO of SummaryJobs: LPUSH on one end, BRPOP on the other.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

// NewRedisQueue uses DefaultKey when key is empty.
func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = DefaultKey
	}
	return &RedisQueue{rdb: rdb, key: key}
}

// Push appends job to the queue.
func (q *RedisQueue) Push(ctx context.Context, job SummaryJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal summary job: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("redis LPUSH: %w", err)
	}
	slog.Debug("summary job queued",
		slog.String("job_id", job.JobID),
		slog.String("submission_id", job.SubmissionID),
		slog.String("queue", q.key))
	return nil
}

// Pop waits up to timeout for the oldest job. It returns ErrEmpty when the
// wait expires.
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (SummaryJob, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return SummaryJob{}, ErrEmpty
	}
	if err != nil {
		return SummaryJob{}, fmt.Errorf("redis BRPOP: %w", err)
	}
	// res is [key, value]
	if len(res) != 2 {
		return SummaryJob{}, fmt.Errorf("redis BRPOP: unexpected reply length %d", len(res))
	}

	var job SummaryJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return SummaryJob{}, fmt.Errorf("unmarshal summary job: %w", err)
	}
	return job, nil
}

// Len reports how many jobs are waiting.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.rdb.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis LLEN: %w", err)
	}
	return n, nil
}

// Ping checks the Redis connection.
func (q *RedisQueue) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return q.rdb.Ping(ctx).Err()
}
