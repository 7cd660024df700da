package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// useRecorder points the package tracer at an in-memory exporter. The
// global delegate only binds once, so the tracer is swapped directly.
func useRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	prevTracer := tracer
	prevProp := otel.GetTextMapPropagator()
	tracer = tp.Tracer(ServiceName)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		tracer = prevTracer
		otel.SetTextMapPropagator(prevProp)
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func serve(h http.Handler, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func attrs(s tracetest.SpanStub) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(s.Attributes))
	for _, kv := range s.Attributes {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestMiddleware_CreatesSpan(t *testing.T) {
	exporter := useRecorder(t)

	var inner trace.SpanContext
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = trace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))
	rec := serve(h, http.MethodPost, "/contact", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "POST /contact", s.Name)
	assert.Equal(t, trace.SpanKindServer, s.SpanKind)
	assert.Equal(t, int64(http.StatusCreated), attrs(s)["http.status_code"].AsInt64())
	assert.Equal(t, "/contact", attrs(s)["http.route"].AsString())
	assert.True(t, inner.IsValid())
	assert.Equal(t, s.SpanContext.TraceID().String(), rec.Header().Get(TraceIDHeader))
	assert.Len(t, rec.Header().Get(TraceIDHeader), 32)
}

func TestMiddleware_NormalizesSubmissionIDs(t *testing.T) {
	exporter := useRecorder(t)

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	serve(h, http.MethodGet, "/admin/submissions/7f9c2b1e-0000-4000-8000-000000000000", nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /admin/submissions/:id", spans[0].Name)
}

func TestMiddleware_PropagatesTraceContext(t *testing.T) {
	exporter := useRecorder(t)

	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	rec := serve(h, http.MethodGet, "/contact/details", map[string]string{
		"traceparent": "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent.SpanID().String())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rec.Header().Get(TraceIDHeader))
}

func TestMiddleware_ErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{"ok", http.StatusOK, false},
		{"client error", http.StatusUnprocessableEntity, false},
		{"server error", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := useRecorder(t)
			h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			serve(h, http.MethodPost, "/contact", nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			_, hasError := attrs(spans[0])["error"]
			assert.Equal(t, tt.wantError, hasError)
			if tt.wantError {
				assert.Equal(t, codes.Error, spans[0].Status.Code)
			} else {
				assert.NotEqual(t, codes.Error, spans[0].Status.Code)
			}
		})
	}
}

func TestInit(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	shutdown := Init(ServiceName, "test")
	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")

	_, span := otel.Tracer("init-test").Start(context.Background(), "probe")
	assert.True(t, span.SpanContext().HasTraceID())
	span.End()

	require.NoError(t, shutdown(context.Background()))
}
