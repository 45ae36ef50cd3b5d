package middleware

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/gomarten/routechain"
)

// MetricsOption configures the metrics middleware.
type MetricsOption func(*metricsOptions)

type metricsOptions struct {
	meter metric.Meter
}

// WithMeterProvider sets a custom MeterProvider for the metrics middleware.
func WithMeterProvider(mp metric.MeterProvider) MetricsOption {
	return func(o *metricsOptions) {
		o.meter = mp.Meter(scope)
	}
}

// Metrics returns a middleware that counts requests and records their
// duration, broken down by method, route and status code.
func Metrics(opts ...MetricsOption) (routechain.Middleware, error) {
	o := metricsOptions{
		meter: otel.GetMeterProvider().Meter(scope),
	}
	for _, opt := range opts {
		opt(&o)
	}

	requests, err := o.meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of routed HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := o.meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of routed HTTP requests"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return func(next routechain.Handler) routechain.Handler {
		return func(c *routechain.Ctx) error {
			start := time.Now()
			err := next(c)
			elapsed := time.Since(start).Seconds()

			status := c.StatusCode()
			if status == 0 {
				status = statusFor(err)
			}
			attrs := metric.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.HTTPRoute(c.Route()),
				semconv.HTTPResponseStatusCode(status),
				attribute.Bool("error", err != nil),
			)
			requests.Add(c.Context(), 1, attrs)
			duration.Record(c.Context(), elapsed, attrs)
			return err
		}
	}, nil
}
