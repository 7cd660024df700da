// Package http holds the HTTP plumbing shared by every route: health and
// readiness probes, request metrics, and the cross-cutting middleware.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"contact-pipeline/internal/handler/http/respond"
	"contact-pipeline/internal/usecase/notify"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                       `json:"status"`
	Timestamp string                       `json:"timestamp"`
	Checks    map[string]CheckStatus       `json:"checks"`
	Channels  []notify.ChannelHealthStatus `json:"channels,omitempty"`
	Version   string                       `json:"version"`
}

// CheckStatus is the outcome of one dependency check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check is one dependency probe. A failing Critical check makes the
// service unhealthy; any other failure only degrades it.
type Check struct {
	Name     string
	Ping     func(ctx context.Context) error
	Critical bool
}

// ChannelHealthSource reports summary delivery channel state.
type ChannelHealthSource interface {
	ChannelHealth() []notify.ChannelHealthStatus
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	Checks   []Check
	Channels ChannelHealthSource
	Version  string
}

// ServeHTTP godoc
// @Summary      Health check
// @Description  Reports store, queue and notification channel health.
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    make(map[string]CheckStatus, len(h.Checks)),
		Version:   h.Version,
	}

	for _, c := range h.Checks {
		status := runCheck(ctx, c)
		resp.Checks[c.Name] = status
		if status.Status == statusHealthy {
			continue
		}
		if c.Critical {
			resp.Status = statusUnhealthy
		} else if resp.Status == statusHealthy {
			resp.Status = statusDegraded
		}
	}

	if h.Channels != nil {
		resp.Channels = h.Channels.ChannelHealth()
		for _, ch := range resp.Channels {
			// サーキットが開いていても受付自体は継続できる
			if ch.CircuitBreakerOpen && resp.Status == statusHealthy {
				resp.Status = statusDegraded
			}
		}
	}

	code := http.StatusOK
	if resp.Status == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, resp)
}

func runCheck(ctx context.Context, c Check) CheckStatus {
	if c.Ping == nil {
		return CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if err := c.Ping(ctx); err != nil {
		slog.Warn("health check failed",
			slog.String("check", c.Name),
			slog.String("error", respond.SanitizeError(err)))
		return CheckStatus{Status: statusUnhealthy, Message: respond.SanitizeError(err)}
	}
	return CheckStatus{Status: statusHealthy}
}

// ReadyHandler answers readiness probes. Only critical checks count.
type ReadyHandler struct {
	Checks []Check
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, c := range h.Checks {
		if !c.Critical {
			continue
		}
		if status := runCheck(ctx, c); status.Status != statusHealthy {
			http.Error(w, c.Name+" not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
