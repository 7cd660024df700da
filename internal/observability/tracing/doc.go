// Package tracing sets up the OpenTelemetry tracer provider and the HTTP
// server span middleware.
//
//	shutdown := tracing.Init("contact-pipeline", version)
//	defer shutdown(context.Background())
//
//	handler := tracing.Middleware(mux)
//
// No exporter is configured; spans still carry real trace IDs, which are
// returned in X-Trace-Id and attached to log records.
package tracing
