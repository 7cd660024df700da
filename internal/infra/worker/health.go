package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contact-pipeline/internal/usecase/notify"
)

// ChannelSource reports notification channel breaker state.
type ChannelSource interface {
	ChannelHealth() []notify.ChannelHealthStatus
}

// HealthServer serves the worker's probes and metrics:
//
//	GET /health           liveness, always 200
//	GET /health/ready     200 once SetReady(true), otherwise 503
//	GET /health/channels  503 when an enabled channel's breaker is open
//	GET /metrics          Prometheus
type HealthServer struct {
	addr     string
	logger   *slog.Logger
	channels ChannelSource
	isReady  atomic.Bool
	server   *http.Server
}

type healthResponse struct {
	Status string `json:"status"`
}

type channelHealthResponse struct {
	Healthy  bool                         `json:"healthy"`
	Channels []notify.ChannelHealthStatus `json:"channels"`
}

// NewHealthServer creates a server that is not ready until SetReady(true).
// channels may be nil.
func NewHealthServer(addr string, channels ChannelSource, logger *slog.Logger) *HealthServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthServer{addr: addr, channels: channels, logger: logger}
}

// Handler returns the routes without starting a listener.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleLiveness)
	mux.HandleFunc("GET /health/ready", h.handleReadiness)
	mux.HandleFunc("GET /health/channels", h.handleChannels)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Start blocks until ctx is canceled or the listener fails. On
// cancellation it shuts down within 5 seconds and returns http.ErrServerClosed.
func (h *HealthServer) Start(ctx context.Context) error {
	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		errChan <- h.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

// SetReady flips the readiness probe.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if h.isReady.Load() {
		h.write(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	h.write(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
}

func (h *HealthServer) handleChannels(w http.ResponseWriter, _ *http.Request) {
	resp := channelHealthResponse{Healthy: true, Channels: []notify.ChannelHealthStatus{}}
	if h.channels != nil {
		resp.Channels = h.channels.ChannelHealth()
	}
	for _, ch := range resp.Channels {
		if ch.Enabled && ch.CircuitBreakerOpen {
			resp.Healthy = false
		}
	}

	status := http.StatusOK
	if !resp.Healthy {
		status = http.StatusServiceUnavailable
	}
	h.write(w, status, resp)
}

func (h *HealthServer) write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
