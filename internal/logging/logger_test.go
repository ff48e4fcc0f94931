package logging

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.raw); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNewLoggerConsoleOnly(t *testing.T) {
	logger := NewLogger(Config{Level: "debug", Service: "fahrtkosten", Version: "test"})
	if logger == nil {
		t.Fatal("expected logger")
	}
	logger.Debug("console logger works")
}

func TestNewLoggerWithFileSink(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(Config{
		Level:         "info",
		File:          filepath.Join(dir, "app.log"),
		RotationMB:    1,
		RetentionDays: 1,
	})
	if logger == nil {
		t.Fatal("expected logger")
	}
	logger.Info("file sink logger works")
}

func TestFromContextFallback(t *testing.T) {
	fallback := slog.Default()
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback logger")
	}

	scoped := slog.Default().With("scoped", true)
	ctx := WithLogger(context.Background(), scoped)
	if got := FromContext(ctx, fallback); got != scoped {
		t.Fatal("expected context logger")
	}
}

func TestNilSafeHelpers(t *testing.T) {
	Info(nil, "ignored")
	Warn(nil, "ignored")
	Error(nil, "ignored", nil)
}
