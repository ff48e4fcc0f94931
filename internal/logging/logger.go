package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger construction.
type Config struct {
	Level   string // debug, info, warn, error
	File    string // optional log file path; empty disables the file sink
	// RotationMB and RetentionDays only apply when File is set.
	RotationMB    int
	RetentionDays int
	Service       string
	Version       string
}

// NewLogger returns a structured logger: colored console output, plus a
// rotating JSON file sink when a file path is configured.
func NewLogger(cfg Config) *slog.Logger {
	level := parseLevel(cfg.Level)

	console := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})

	handler := slog.Handler(console)
	if cfg.File != "" {
		sink := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.RotationMB,
			MaxAge:     cfg.RetentionDays,
			MaxBackups: 10,
			Compress:   true,
		}
		file := slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level})
		handler = fanoutHandler{handlers: []slog.Handler{console, file}}
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With(slog.String(FieldService, cfg.Service))
	}
	if cfg.Version != "" {
		logger = logger.With(slog.String(FieldVersion, cfg.Version))
	}
	return logger
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
