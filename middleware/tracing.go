package middleware

import (
	"errors"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/gomarten/routechain"
)

const scope = "github.com/gomarten/routechain/middleware"

// TracingOption configures the tracing middleware.
type TracingOption func(*tracingOptions)

type tracingOptions struct {
	tracer trace.Tracer
}

// WithTracerProvider sets a custom TracerProvider for the tracing middleware.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(o *tracingOptions) {
		o.tracer = tp.Tracer(scope)
	}
}

// Tracing returns a middleware that records a span per routed request,
// named after the method and route pattern.
func Tracing(opts ...TracingOption) routechain.Middleware {
	o := tracingOptions{
		tracer: otel.GetTracerProvider().Tracer(scope),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next routechain.Handler) routechain.Handler {
		return func(c *routechain.Ctx) error {
			route := c.Route()
			name := c.Method()
			if route != "" {
				name += " " + route
			}

			ctx, span := o.tracer.Start(c.Context(), name,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(c.Method()),
					semconv.URLPath(c.Path()),
					attribute.String("http.request_id", c.RequestID()),
				),
			)
			defer span.End()
			if route != "" {
				span.SetAttributes(semconv.HTTPRoute(route))
			}

			c.Request = c.Request.WithContext(ctx)
			err := next(c)

			status := c.StatusCode()
			if status == 0 {
				status = statusFor(err)
			}
			span.SetAttributes(semconv.HTTPResponseStatusCode(status))

			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				if errors.Is(err, routechain.ErrNoResponse) {
					span.SetAttributes(attribute.Bool("routechain.empty", true))
				}
			case status >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			return err
		}
	}
}
