package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskline/taskline-api/internal/api"
	"github.com/taskline/taskline-api/internal/config"
	"github.com/taskline/taskline-api/internal/platform/postgres"
	"github.com/taskline/taskline-api/internal/realtime"
	"github.com/taskline/taskline-api/internal/service"
	"github.com/taskline/taskline-api/internal/service/auth"
	"github.com/taskline/taskline-api/internal/store"
)

// application holds the composed dependencies of the server. Everything
// is wired once in newApplication and torn down in cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger

	db        *sql.DB
	userStore store.UserStore
	taskStore store.TaskStore

	jwtService auth.JWTService
	verifier   auth.CredentialVerifier

	userService *service.UserService
	taskService *service.TaskService

	hub     *realtime.Hub
	hubStop context.CancelFunc

	authHandler *api.AuthHandler
	taskHandler *api.TaskHandler
	wsHandler   *realtime.Handler
}

// newApplication wires the full dependency graph: database, stores, auth
// services, the realtime hub, domain services, and HTTP handlers. The hub
// starts running before the server accepts connections.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating JWT service: %w", err)
	}
	verifier := auth.NewVerifier(jwtService, userStore)

	hub := realtime.NewHub(logger)
	hubCtx, hubStop := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	userService := service.NewUserService(
		userStore,
		jwtService,
		auth.NewBcryptHasher(),
		auth.NewBcryptVerifier(),
		logger,
	)
	taskService := service.NewTaskService(taskStore, userStore, hub, logger)

	app := &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		userStore:   userStore,
		taskStore:   taskStore,
		jwtService:  jwtService,
		verifier:    verifier,
		userService: userService,
		taskService: taskService,
		hub:         hub,
		hubStop:     hubStop,
		authHandler: api.NewAuthHandler(userService, cfg.Auth),
		taskHandler: api.NewTaskHandler(taskService),
		wsHandler:   realtime.NewHandler(hub, verifier, logger),
	}
	return app, nil
}

// cleanup releases the application's resources in reverse dependency
// order: stop the hub so no event tries to reach a closed connection,
// then close the database pool.
func (app *application) cleanup() {
	app.hubStop()
	app.hub.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
	app.logger.Info("application cleanup completed")
}
