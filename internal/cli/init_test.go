package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRunCleanup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	t.Run("success", func(t *testing.T) {
		buf.Reset()
		RunCleanup(logger, time.Second, func(context.Context) error { return nil })
		if !strings.Contains(buf.String(), "Shutdown complete") {
			t.Errorf("log = %q", buf.String())
		}
	})

	t.Run("error", func(t *testing.T) {
		buf.Reset()
		RunCleanup(logger, time.Second, func(context.Context) error { return errors.New("boom") })
		if !strings.Contains(buf.String(), "boom") {
			t.Errorf("log = %q", buf.String())
		}
	})

	t.Run("timeout", func(t *testing.T) {
		buf.Reset()
		RunCleanup(logger, 20*time.Millisecond, func(ctx context.Context) error {
			time.Sleep(200 * time.Millisecond)
			return nil
		})
		if !strings.Contains(buf.String(), "Shutdown timeout reached") {
			t.Errorf("log = %q", buf.String())
		}
	})
}
