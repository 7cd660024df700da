package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var rateLimitDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "contact_rate_limit_decisions_total",
		Help: "Rate limit decisions by limiter and outcome",
	},
	[]string{"limiter", "decision"}, // decision: allowed|denied|error
)

// IPRateLimiterConfig configures a per-client token bucket.
type IPRateLimiterConfig struct {
	// Name labels metrics and logs, e.g. "contact" or "auth"
	Name string

	// RPS is the sustained request rate per client
	RPS float64

	// Burst is how many requests a client may make at once
	Burst int

	// IdleTTL is how long an unused bucket is kept
	IdleTTL time.Duration

	Enabled bool
}

// DefaultIPRateLimiterConfig allows one request every five seconds with a
// burst of five.
func DefaultIPRateLimiterConfig(name string) IPRateLimiterConfig {
	return IPRateLimiterConfig{
		Name:    name,
		RPS:     0.2,
		Burst:   5,
		IdleTTL: 10 * time.Minute,
		Enabled: true,
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter rejects clients that exceed their token bucket with 429.
// Extraction failures fail open.
type IPRateLimiter struct {
	config      IPRateLimiterConfig
	ipExtractor IPExtractor
	now         func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewIPRateLimiter creates an IPRateLimiter.
func NewIPRateLimiter(config IPRateLimiterConfig, ipExtractor IPExtractor) *IPRateLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	if config.Burst < 1 {
		config.Burst = 1
	}
	if ipExtractor == nil {
		ipExtractor = &RemoteAddrExtractor{}
	}
	return &IPRateLimiter{
		config:      config,
		ipExtractor: ipExtractor,
		now:         time.Now,
		buckets:     make(map[string]*bucket),
	}
}

// Middleware wraps next with the limiter.
func (rl *IPRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ip, err := rl.ipExtractor.ExtractIP(r)
			if err != nil {
				slog.Error("IP rate limiter: failed to extract IP, allowing request",
					slog.String("limiter", rl.config.Name),
					slog.String("remote_addr", r.RemoteAddr),
					slog.Any("error", err))
				rateLimitDecisions.WithLabelValues(rl.config.Name, "error").Inc()
				next.ServeHTTP(w, r)
				return
			}

			reservation := rl.reserve(ip)
			delay := reservation.DelayFrom(rl.now())
			if delay > 0 {
				reservation.CancelAt(rl.now())
				rl.writeRateLimitError(w, r, ip, delay)
				return
			}

			rateLimitDecisions.WithLabelValues(rl.config.Name, "allowed").Inc()
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *IPRateLimiter) reserve(ip string) *rate.Reservation {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(rl.config.RPS), rl.config.Burst)}
		rl.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.ReserveN(now, 1)
}

func (rl *IPRateLimiter) writeRateLimitError(w http.ResponseWriter, r *http.Request, ip string, delay time.Duration) {
	retryAfter := int64(math.Ceil(delay.Seconds()))
	w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	response := map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Too many requests. Please try again later.",
		"retry_after": retryAfter,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("IP rate limiter: failed to encode JSON response", slog.Any("error", err))
	}

	rateLimitDecisions.WithLabelValues(rl.config.Name, "denied").Inc()
	slog.Warn("rate limit exceeded",
		slog.String("limiter", rl.config.Name),
		slog.String("ip", ip),
		slog.Int64("retry_after", retryAfter),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))
}

// CleanupExpired drops buckets idle for longer than IdleTTL and returns how
// many were removed.
func (rl *IPRateLimiter) CleanupExpired() int {
	cutoff := rl.now().Add(-rl.config.IdleTTL)
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, ip)
			removed++
		}
	}
	return removed
}

// StartCleanup runs CleanupExpired every interval until ctx is done.
func (rl *IPRateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupExpired(); n > 0 {
				slog.Debug("rate limit buckets cleaned up",
					slog.String("limiter", rl.config.Name),
					slog.Int("removed", n))
			}
		}
	}
}
