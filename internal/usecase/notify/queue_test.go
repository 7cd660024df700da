package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"contact-pipeline/internal/infra/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	mu      sync.Mutex
	jobs    []queue.SummaryJob
	pushErr error
	popErr  error
	// pushBlock, when set, makes Push wait for it to close or ctx to end
	pushBlock chan struct{}
	pushes    int
}

func (f *fakeQueue) Push(ctx context.Context, job queue.SummaryJob) error {
	f.mu.Lock()
	f.pushes++
	f.mu.Unlock()

	if f.pushBlock != nil {
		select {
		case <-f.pushBlock:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.pushErr != nil {
		return f.pushErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) Pop(ctx context.Context, timeout time.Duration) (queue.SummaryJob, error) {
	f.mu.Lock()
	if f.popErr != nil {
		err := f.popErr
		f.popErr = nil
		f.mu.Unlock()
		return queue.SummaryJob{}, err
	}
	if len(f.jobs) > 0 {
		job := f.jobs[0]
		f.jobs = f.jobs[1:]
		f.mu.Unlock()
		return job, nil
	}
	f.mu.Unlock()

	select {
	case <-time.After(timeout):
		return queue.SummaryJob{}, queue.ErrEmpty
	case <-ctx.Done():
		return queue.SummaryJob{}, ctx.Err()
	}
}

func (f *fakeQueue) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushes
}

func (f *fakeQueue) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

func TestQueueDispatcher_Dispatch(t *testing.T) {
	t.Run("pushes snapshot of submission", func(t *testing.T) {
		q := &fakeQueue{}
		d := NewQueueDispatcher(q)

		d.Dispatch(context.Background(), testSubmission())
		shutdown(t, d)

		require.Equal(t, 1, q.pending())
		job := q.jobs[0]
		assert.NotEmpty(t, job.JobID)
		assert.Equal(t, "sub-1", job.SubmissionID)
		assert.Equal(t, "Jo", job.Name)
	})

	t.Run("push failure is swallowed", func(t *testing.T) {
		q := &fakeQueue{pushErr: errors.New("redis down")}
		d := NewQueueDispatcher(q)

		assert.NotPanics(t, func() {
			d.Dispatch(context.Background(), testSubmission())
			shutdown(t, d)
		})
		assert.Equal(t, 1, q.pushCount())
		assert.Equal(t, 0, q.pending())
	})

	t.Run("canceled request still enqueues", func(t *testing.T) {
		q := &fakeQueue{}
		d := NewQueueDispatcher(q)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		d.Dispatch(ctx, testSubmission())
		shutdown(t, d)

		assert.Equal(t, 1, q.pending())
	})

	t.Run("slow queue does not block caller", func(t *testing.T) {
		q := &fakeQueue{pushBlock: make(chan struct{})}
		d := NewQueueDispatcher(q)

		start := time.Now()
		d.Dispatch(context.Background(), testSubmission())
		assert.Less(t, time.Since(start), 100*time.Millisecond)

		close(q.pushBlock)
		shutdown(t, d)
		assert.Equal(t, 1, q.pending())
	})

	t.Run("pending pushes are bounded", func(t *testing.T) {
		q := &fakeQueue{pushBlock: make(chan struct{})}
		d := NewQueueDispatcher(q)

		for i := 0; i < maxPendingPushes+20; i++ {
			d.Dispatch(context.Background(), testSubmission())
		}
		require.Eventually(t, func() bool { return q.pushCount() == maxPendingPushes }, time.Second, 5*time.Millisecond)

		close(q.pushBlock)
		shutdown(t, d)
		assert.Equal(t, maxPendingPushes, q.pending())
	})

	t.Run("rejects work after shutdown", func(t *testing.T) {
		q := &fakeQueue{}
		d := NewQueueDispatcher(q)
		shutdown(t, d)

		d.Dispatch(context.Background(), testSubmission())

		assert.Equal(t, 0, q.pushCount())
	})
}

func TestConsumer_Run(t *testing.T) {
	q := &fakeQueue{popErr: errors.New("connection reset")}
	q.jobs = append(q.jobs,
		queue.NewSummaryJob(testSubmission()),
		queue.NewSummaryJob(testSubmission()),
	)
	ch := &mockChannel{name: "log", enabled: true}
	c := NewConsumer(q, NewRunner(okSummarizer(), []Channel{ch}), time.Second)
	c.pollTimeout = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return ch.callCount() == 2 }, 3*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestConsumer_JobFailureKeepsRunning(t *testing.T) {
	q := &fakeQueue{}
	q.jobs = append(q.jobs, queue.NewSummaryJob(testSubmission()))
	s := &mockSummarizer{err: errSummarizerDown}
	c := NewConsumer(q, NewRunner(s, []Channel{&mockChannel{name: "log", enabled: true}}), time.Second)
	c.pollTimeout = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return s.callCount() == 1 }, time.Second, 5*time.Millisecond)
	q.mu.Lock()
	q.jobs = append(q.jobs, queue.NewSummaryJob(testSubmission()))
	q.mu.Unlock()
	require.Eventually(t, func() bool { return s.callCount() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
