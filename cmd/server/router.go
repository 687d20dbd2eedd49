package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/taskline/taskline-api/internal/api/middleware"
	"github.com/taskline/taskline-api/internal/api/shared"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	authRequired := apimiddleware.Authenticate(app.verifier)

	r.Route("/api", func(r chi.Router) {
		// Public authentication endpoints.
		r.Post("/auth/register", app.authHandler.Register)
		r.Post("/auth/login", app.authHandler.Login)
		r.Post("/auth/logout", app.authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authRequired)

			r.Get("/auth/me", app.authHandler.Me)
			r.Put("/auth/profile", app.authHandler.UpdateProfile)

			// Fixed segments must register before the {id} routes so
			// "dashboard" and "users" are not parsed as task IDs.
			r.Get("/tasks/dashboard", app.taskHandler.Dashboard)
			r.Get("/tasks/users", app.taskHandler.Users)

			r.Post("/tasks", app.taskHandler.Create)
			r.Get("/tasks", app.taskHandler.List)
			r.Get("/tasks/{id}", app.taskHandler.Get)
			r.Put("/tasks/{id}", app.taskHandler.Update)
			r.Delete("/tasks/{id}", app.taskHandler.Delete)
		})
	})

	// Websocket endpoint; authenticates via the token query parameter
	// rather than the cookie middleware.
	r.Get("/ws", app.wsHandler.ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		shared.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		shared.RespondWithError(w, http.StatusNotFound, "Route not found")
	})

	return r
}
