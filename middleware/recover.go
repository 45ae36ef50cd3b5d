package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gomarten/routechain"
)

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	// OnPanic is called when a panic is recovered.
	// If nil, a default 500 response is sent.
	OnPanic func(c *routechain.Ctx, err any) error
	// LogPanics enables logging of panics (default: true)
	LogPanics bool
	// StackTrace adds the goroutine stack to the log record.
	StackTrace bool
}

// DefaultRecoverConfig returns sensible defaults.
func DefaultRecoverConfig() RecoverConfig {
	return RecoverConfig{
		LogPanics: true,
	}
}

// Recover catches panics and returns 500.
func Recover(next routechain.Handler) routechain.Handler {
	return RecoverWithConfig(DefaultRecoverConfig())(next)
}

// RecoverWithConfig returns a recover middleware with custom config.
func RecoverWithConfig(cfg RecoverConfig) routechain.Middleware {
	return func(next routechain.Handler) routechain.Handler {
		return func(c *routechain.Ctx) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if cfg.LogPanics {
					attrs := []any{slog.Any("panic", r), slog.String("route", c.Route())}
					if cfg.StackTrace {
						attrs = append(attrs, slog.String("stack", string(debug.Stack())))
					}
					c.Logger().Error("panic recovered", attrs...)
				}

				if cfg.OnPanic != nil {
					err = cfg.OnPanic(c, r)
				} else if !c.Written() {
					err = c.Text(http.StatusInternalServerError, "Internal Server Error")
				}
			}()
			return next(c)
		}
	}
}

// RecoverJSON returns a recover middleware that answers with a JSON error.
func RecoverJSON(next routechain.Handler) routechain.Handler {
	return RecoverWithConfig(RecoverConfig{
		LogPanics: true,
		OnPanic: func(c *routechain.Ctx, err any) error {
			return c.JSON(http.StatusInternalServerError, routechain.M{
				"error":   "internal server error",
				"message": fmt.Sprintf("%v", err),
			})
		},
	})(next)
}
