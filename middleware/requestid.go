package middleware

import "github.com/gomarten/routechain"

// RequestIDHeader carries the request ID in requests and responses.
const RequestIDHeader = "X-Request-ID"

// RequestID echoes the request ID (a UUID unless the client sent one) in the
// response headers.
func RequestID(next routechain.Handler) routechain.Handler {
	return func(c *routechain.Ctx) error {
		c.Header(RequestIDHeader, c.RequestID())
		return next(c)
	}
}
