package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"contact-pipeline/internal/domain/entity"
)

type mockChannel struct {
	name        string
	enabled     bool
	sendError   error
	panicOnSend bool

	mu       sync.Mutex
	calls    int
	received []entity.Summary
}

func (m *mockChannel) Name() string    { return m.name }
func (m *mockChannel) IsEnabled() bool { return m.enabled }

func (m *mockChannel) Send(_ context.Context, _ *entity.Submission, summary entity.Summary) error {
	m.mu.Lock()
	m.calls++
	m.received = append(m.received, summary)
	shouldPanic := m.panicOnSend
	err := m.sendError
	m.mu.Unlock()

	if shouldPanic {
		panic("mock panic in Send()")
	}
	return err
}

func (m *mockChannel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockSummarizer struct {
	summary entity.Summary
	err     error
	// block, when set, makes Summarize wait for it to close or ctx to end
	block chan struct{}

	mu    sync.Mutex
	calls int
}

func (m *mockSummarizer) Summarize(ctx context.Context, _ entity.SubmissionInput) (entity.Summary, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return entity.Summary{}, ctx.Err()
		}
	}
	if m.err != nil {
		return entity.Summary{}, m.err
	}
	return m.summary, nil
}

func (m *mockSummarizer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var errSummarizerDown = errors.New("summarizer down")

func testSubmission() *entity.Submission {
	return &entity.Submission{
		ID:             "sub-1",
		Name:           "Jo",
		Email:          "jo@example.com",
		Message:        "Hello there, testing.",
		SubmissionDate: time.Date(2025, 6, 10, 6, 13, 20, 0, time.UTC),
	}
}

func okSummarizer() *mockSummarizer {
	return &mockSummarizer{summary: entity.Summary{Summary: "Jo says hello."}}
}
