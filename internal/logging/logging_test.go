package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFormats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{FormatJSON, func(t *testing.T, out string) {
			var rec map[string]any
			if err := json.Unmarshal([]byte(out), &rec); err != nil {
				t.Fatalf("expected JSON, got %q", out)
			}
			if rec["msg"] != "hello" || rec["user"] != "tom" {
				t.Errorf("unexpected record %v", rec)
			}
		}},
		{FormatText, func(t *testing.T, out string) {
			if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "user=tom") {
				t.Errorf("unexpected output %q", out)
			}
		}},
		{FormatTint, func(t *testing.T, out string) {
			if !strings.Contains(out, "hello") || !strings.Contains(out, "tom") {
				t.Errorf("unexpected output %q", out)
			}
		}},
		{"", func(t *testing.T, out string) {
			if !strings.Contains(out, "hello") {
				t.Errorf("expected tint output by default, got %q", out)
			}
		}},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(Config{Format: tt.format, Output: &buf})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			logger.Info("hello", "user", "tom")
			tt.check(t, buf.String())
		})
	}
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Format: FormatJSON, Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNewOTel(t *testing.T) {
	logger, err := New(Config{Format: FormatOTel})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("sent to the global logger provider")
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		level, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
		}
		if level != tt.level {
			t.Errorf("%q: expected %v, got %v", tt.in, tt.level, level)
		}
	}
}
