package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gomarten/routechain"
)

// Timeout returns a chain step that runs the rest of the chain under a
// deadline. If the deadline has passed once the inner steps return, the
// chain ends with 504 and the inner result is discarded.
//
// The inner steps run on the request goroutine, so they must watch
// c.Context() to stop early; the 504 is sent only after they return.
func Timeout(d time.Duration) routechain.Wrap {
	return func(c *routechain.Ctx, next routechain.Next) (routechain.Response, error) {
		parent := c.Request
		ctx, cancel := context.WithTimeout(parent.Context(), d)
		defer cancel()

		c.Request = parent.WithContext(ctx)
		resp, err := next(c)
		c.Request = parent

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return routechain.Error(http.StatusGatewayTimeout, "request timeout"), nil
		}
		return resp, err
	}
}
