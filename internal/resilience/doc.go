// Package resilience groups the fault tolerance helpers used around the
// contact pipeline's external dependencies.
//
//   - circuitbreaker wraps sony/gobreaker for summary providers, the submission
//     database and operator webhooks.
//   - retry provides exponential backoff with jitter for webhook delivery and
//     startup connectivity checks.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.GeminiAPIConfig())
//	summary, err := circuitbreaker.Run(cb, func() (entity.Summary, error) {
//	    return provider.call(ctx, prompt)
//	})
//
//	err := retry.WithBackoff(ctx, retry.WebhookConfig(), func() error {
//	    return postWebhook(ctx, payload)
//	})
package resilience
