package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"contact-pipeline/internal/resilience/retry"
)

// maxErrorBody bounds how much of an error response is kept in the error.
const maxErrorBody = 512

// webhookClient posts JSON payloads to an incoming-webhook URL, mapping
// non-2xx responses to retry.HTTPError so WithBackoff can decide.
type webhookClient struct {
	url         string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	retryConfig retry.Config
}

func newWebhookClient(url string, timeout time.Duration, limiter *RateLimiter) *webhookClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &webhookClient{
		url:         url,
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: limiter,
		retryConfig: retry.WebhookConfig(),
	}
}

func (c *webhookClient) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	return retry.WithBackoff(ctx, c.retryConfig, func() error {
		if err := c.rateLimiter.Allow(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		return c.send(ctx, body)
	})
}

func (c *webhookClient) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &retry.HTTPError{
		StatusCode: resp.StatusCode,
		Message:    string(msg),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// parseRetryAfter understands the delta-seconds form. Discord also sends
// fractional seconds, so those are accepted too.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
