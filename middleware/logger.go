package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gomarten/routechain"
)

// LoggerConfig configures the logger middleware.
type LoggerConfig struct {
	// Logger receives the access log records (default: the request logger
	// from Ctx.Logger).
	Logger *slog.Logger
	// Level is the level for successful requests (default: slog.LevelInfo).
	// 5xx responses are always logged at error level.
	Level slog.Level
	// Message is the log message (default: "request").
	Message string
	// Skip is a function to skip logging for certain requests.
	Skip func(*routechain.Ctx) bool
}

// DefaultLoggerConfig returns sensible defaults.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:   slog.LevelInfo,
		Message: "request",
	}
}

// Logger logs method, route, status code and duration of every request.
func Logger(next routechain.Handler) routechain.Handler {
	return LoggerWithConfig(DefaultLoggerConfig())(next)
}

// LoggerWithConfig returns a logger middleware with custom config.
func LoggerWithConfig(cfg LoggerConfig) routechain.Middleware {
	if cfg.Message == "" {
		cfg.Message = "request"
	}

	return func(next routechain.Handler) routechain.Handler {
		return func(c *routechain.Ctx) error {
			if cfg.Skip != nil && cfg.Skip(c) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			status := c.StatusCode()
			if status == 0 {
				status = statusFor(err)
			}

			logger := cfg.Logger
			if logger == nil {
				logger = c.Logger()
			} else {
				logger = logger.With(
					slog.String("method", c.Method()),
					slog.String("path", c.Path()),
				)
			}

			level := cfg.Level
			if status >= http.StatusInternalServerError || err != nil {
				level = slog.LevelError
			}

			attrs := []slog.Attr{
				slog.String("route", c.Route()),
				slog.Int("status", status),
				slog.Duration("duration", duration),
				slog.String("client_ip", c.ClientIP()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(c.Context(), level, cfg.Message, attrs...)
			return err
		}
	}
}
