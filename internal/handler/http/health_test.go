package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contact-pipeline/internal/usecase/notify"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannels []notify.ChannelHealthStatus

func (s stubChannels) ChannelHealth() []notify.ChannelHealthStatus { return s }

func pingOK(context.Context) error { return nil }

func pingFail(context.Context) error {
	return errors.New("dial tcp redis://:hunter2@cache:6379: connection refused")
}

func serveHealth(t *testing.T, h http.Handler) (int, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHealthHandler_Database(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	h := &HealthHandler{
		Checks:  []Check{{Name: "database", Ping: db.PingContext, Critical: true}},
		Version: "1.2.3",
	}
	code, body := serveHealth(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, "healthy", body.Checks["database"].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthHandler_Statuses(t *testing.T) {
	openUntil := time.Now().Add(time.Minute)

	tests := []struct {
		name       string
		checks     []Check
		channels   ChannelHealthSource
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all healthy",
			checks:     []Check{{Name: "database", Ping: pingOK, Critical: true}, {Name: "queue", Ping: pingOK}},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name:       "critical failure",
			checks:     []Check{{Name: "database", Ping: pingFail, Critical: true}, {Name: "queue", Ping: pingOK}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
		{
			name:       "non critical failure degrades",
			checks:     []Check{{Name: "database", Ping: pingOK, Critical: true}, {Name: "queue", Ping: pingFail}},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
		},
		{
			name:       "missing ping is a failure",
			checks:     []Check{{Name: "database", Critical: true}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
		{
			name:   "open channel breaker degrades",
			checks: []Check{{Name: "database", Ping: pingOK, Critical: true}},
			channels: stubChannels{
				{Name: "slack", Enabled: true},
				{Name: "email", Enabled: true, CircuitBreakerOpen: true, DisabledUntil: &openUntil},
			},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serveHealth(t, &HealthHandler{Checks: tt.checks, Channels: tt.channels})

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
		})
	}
}

func TestHealthHandler_SanitizesMessages(t *testing.T) {
	_, body := serveHealth(t, &HealthHandler{Checks: []Check{{Name: "queue", Ping: pingFail}}})

	assert.NotContains(t, body.Checks["queue"].Message, "hunter2")
	assert.Contains(t, body.Checks["queue"].Message, "****")
}

func TestHealthHandler_ReportsChannels(t *testing.T) {
	_, body := serveHealth(t, &HealthHandler{
		Channels: stubChannels{{Name: "discord", Enabled: false}},
	})

	require.Len(t, body.Channels, 1)
	assert.Equal(t, "discord", body.Channels[0].Name)
	assert.False(t, body.Channels[0].Enabled)
}

func TestReadyHandler(t *testing.T) {
	tests := []struct {
		name     string
		checks   []Check
		wantCode int
	}{
		{name: "no checks", wantCode: http.StatusOK},
		{name: "critical ok", checks: []Check{{Name: "database", Ping: pingOK, Critical: true}}, wantCode: http.StatusOK},
		{name: "non critical failure ignored", checks: []Check{{Name: "queue", Ping: pingFail}}, wantCode: http.StatusOK},
		{name: "critical failure", checks: []Check{{Name: "database", Ping: pingFail, Critical: true}}, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			(&ReadyHandler{Checks: tt.checks}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LiveHandler{}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
}
