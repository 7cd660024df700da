package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          50 * time.Millisecond,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig("test-circuit"))

	require.NotNil(t, cb)
	assert.Equal(t, "test-circuit", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.False(t, cb.IsOpen())
}

func TestRun_Success(t *testing.T) {
	cb := New(testConfig("run-success"))

	got, err := Run(cb, func() (string, error) {
		return "one sentence.", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "one sentence.", got)
}

func TestRun_FailureReturnsZeroValue(t *testing.T) {
	cb := New(testConfig("run-failure"))
	boom := errors.New("boom")

	got, err := Run(cb, func() (int, error) {
		return 42, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, got)
}

func TestCircuitBreaker_TripsOpenAndRecovers(t *testing.T) {
	cb := New(testConfig("trip"))
	boom := errors.New("provider down")

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}
	require.True(t, cb.IsOpen())

	_, err := Run(cb, func() (string, error) {
		t.Fatal("function must not run while open")
		return "", nil
	})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, cb.State())

	_, err = Run(cb, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_MinRequests(t *testing.T) {
	cb := New(testConfig("min-requests"))
	boom := errors.New("fail")

	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestProviderConfigs(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
	}{
		{"gemini", GeminiAPIConfig(), "gemini-api"},
		{"claude", ClaudeAPIConfig(), "claude-api"},
		{"openai", OpenAIAPIConfig(), "openai-api"},
		{"webhook", WebhookConfig("slack"), "slack"},
		{"db", DBConfig(), "submission-db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, tt.cfg.Name)
			assert.Positive(t, tt.cfg.MinRequests)
			assert.Positive(t, tt.cfg.Timeout)
			assert.GreaterOrEqual(t, tt.cfg.FailureThreshold, 0.6)
			assert.LessOrEqual(t, tt.cfg.FailureThreshold, 1.0)
		})
	}
}
