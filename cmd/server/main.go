package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/courtside/internal/config"
	"github.com/preston-bernstein/courtside/internal/logging"
	"github.com/preston-bernstein/courtside/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	logger := logging.NewLogger(logging.Config{})
	if err := config.LoadDotEnv(); err != nil {
		logger.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg := config.Load()
	logger = logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "courtside-server",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
	srv.Run(ctx, stop)
}
