// Package observability groups the service's structured logging, Prometheus
// business metrics and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: slog setup, request-scoped fields and secret masking
//   - metrics: store and database gauges shared by cmd/api and cmd/worker
//   - tracing: tracer provider setup and HTTP server spans
package observability
