// Package metrics holds the Prometheus gauges and histograms that are not
// owned by a single package: the stored submission count, database timings
// and pool statistics, and build info.
//
// HTTP request metrics live with the middleware in internal/handler/http;
// pipeline, summary and notification counters live with their use cases.
//
//	if err := metrics.RefreshStoredSubmissions(ctx, repo); err != nil {
//	    slog.Warn("gauge refresh failed", logging.Err(err))
//	}
package metrics
