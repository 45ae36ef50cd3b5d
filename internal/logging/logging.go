// Package logging builds the slog.Logger used by routechain binaries.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Formats understood by New.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatTint = "tint"
	FormatOTel = "otel"
)

// Config selects the log format and level.
type Config struct {
	Format string
	Level  string
	Output io.Writer
	// Name is the instrumentation scope for the otel format.
	Name string
}

// New returns a logger for cfg. The otel format hands records to the global
// OpenTelemetry logger provider; the others write to Output (default stderr).
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", FormatTint:
		h = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
		})
	case FormatText:
		h = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	case FormatJSON:
		h = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case FormatOTel:
		name := cfg.Name
		if name == "" {
			name = "github.com/gomarten/routechain"
		}
		h = otelslog.NewHandler(name)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	return slog.New(h), nil
}

// ParseLevel parses debug, info, warn or error. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}
