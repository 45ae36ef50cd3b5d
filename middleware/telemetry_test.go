package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/gomarten/routechain"
	"github.com/gomarten/routechain/middleware"
)

func spanAttr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	app := quietApp()
	app.Use(middleware.Tracing(middleware.WithTracerProvider(tp)))

	var inner trace.SpanContext
	app.GET("/users/:id", func(c *routechain.Ctx) (routechain.Response, error) {
		inner = trace.SpanContextFromContext(c.Context())
		return routechain.Text(http.StatusOK, c.Param("id")), nil
	})
	app.GET("/empty", func(*routechain.Ctx) (routechain.Response, error) { return nil, nil })

	do(app, httptest.NewRequest("GET", "/users/7", nil))
	do(app, httptest.NewRequest("GET", "/empty", nil))

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	first := spans[0]
	if first.Name() != "GET /users/:id" {
		t.Errorf("unexpected span name %q", first.Name())
	}
	if first.SpanKind() != trace.SpanKindServer {
		t.Errorf("expected server span, got %v", first.SpanKind())
	}
	if v, found := spanAttr(first.Attributes(), "http.route"); !found || v.AsString() != "/users/:id" {
		t.Errorf("unexpected http.route %v", v)
	}
	if v, found := spanAttr(first.Attributes(), "http.response.status_code"); !found || v.AsInt64() != 200 {
		t.Errorf("unexpected status attribute %v", v)
	}
	if inner.SpanID() != first.SpanContext().SpanID() {
		t.Error("expected chain steps to see the request span in their context")
	}

	empty := spans[1]
	if empty.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", empty.Status().Code)
	}
	if v, found := spanAttr(empty.Attributes(), "routechain.empty"); !found || !v.AsBool() {
		t.Error("expected empty chain to be marked on the span")
	}
}

func TestTracingUnmatchedRoute(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	app := quietApp()
	app.Use(middleware.Tracing(middleware.WithTracerProvider(tp)))
	do(app, httptest.NewRequest("GET", "/missing", nil))

	spans := sr.Ended()
	if len(spans) != 1 || spans[0].Name() != "GET" {
		t.Fatalf("expected a single span named after the method, got %v", spans)
	}
	if _, found := spanAttr(spans[0].Attributes(), "http.route"); found {
		t.Error("expected no route attribute for unmatched requests")
	}
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	mw, err := middleware.Metrics(middleware.WithMeterProvider(mp))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	app := quietApp()
	app.Use(mw)
	app.GET("/ok", ok("ok"))
	app.GET("/denied", func(*routechain.Ctx) (routechain.Response, error) {
		return routechain.Error(http.StatusForbidden, "no"), nil
	})

	do(app, httptest.NewRequest("GET", "/ok", nil))
	do(app, httptest.NewRequest("GET", "/ok", nil))
	do(app, httptest.NewRequest("GET", "/denied", nil))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	counts := map[int64]int64{}
	var histogramSeen bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name != "http.server.requests" {
					continue
				}
				for _, dp := range data.DataPoints {
					status, _ := dp.Attributes.Value("http.response.status_code")
					counts[status.AsInt64()] += dp.Value
				}
			case metricdata.Histogram[float64]:
				if m.Name == "http.server.request.duration" && len(data.DataPoints) > 0 {
					histogramSeen = true
				}
			}
		}
	}

	if counts[200] != 2 || counts[403] != 1 {
		t.Errorf("unexpected request counts %v", counts)
	}
	if !histogramSeen {
		t.Error("expected duration histogram data points")
	}
}
