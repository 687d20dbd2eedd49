// Package main implements the entry point for the Taskline API server,
// a task management backend with cookie-based authentication, task CRUD
// with filtering and pagination, a per-user dashboard, and realtime task
// event broadcast over websockets.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/taskline/taskline-api/internal/config"
	"github.com/taskline/taskline-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(logger.Config{Level: cfg.Server.LogLevel})
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}
	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.startHTTPServer(context.Background()); err != nil {
		appLogger.Error("server exited with error", "error", err)
		log.Fatalf("Server error: %v", err)
	}
}
