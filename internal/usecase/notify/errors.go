package notify

import "errors"

var (
	// ErrNotificationDropped indicates the worker pool had no free slot.
	ErrNotificationDropped = errors.New("summary job dropped due to pool saturation")

	// ErrCircuitBreakerOpen indicates a channel is resting after repeated failures.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open for this channel")

	// ErrNoChannels indicates every channel is disabled.
	ErrNoChannels = errors.New("no notification channels enabled")
)
