package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fahrtkosten-service/internal/config"
	"fahrtkosten-service/internal/logging"
	"fahrtkosten-service/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:         cfg.Logging.Level,
		File:          cfg.Logging.File,
		RotationMB:    cfg.Logging.RotationMB,
		RetentionDays: cfg.Logging.RetentionDays,
		Service:       "fahrtkosten-service",
		Version:       appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
}
