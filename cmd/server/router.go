package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/tasktrail-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasktrail-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware. Bearer authentication is required only on the
// mutating task endpoints; the read surface is public.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Both /task/all and /task/all/ resolve to the same handler.
	r.Use(middleware.StripSlashes)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
		app.logger,
	)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	userHandler := api.NewUserHandler(app.userStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Authentication endpoints (public)
	r.Post("/token", authHandler.Login)
	r.Post("/token/refresh", authHandler.RefreshToken)
	r.Post("/user/register", authHandler.Register)

	// User directory (public)
	r.Get("/user/all", userHandler.ListUsers)
	r.Get("/user/tasks/{id}", taskHandler.GetUserTasks)

	// Task read surface (public)
	r.Get("/task/all", taskHandler.ListTasks)
	r.Get("/task/filter", taskHandler.FilterTasks)
	r.Get("/task/history/{id}", taskHandler.GetTaskHistory)
	r.Get("/task/{id}", taskHandler.GetTask)

	// Task mutations (bearer auth)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/task/create", taskHandler.CreateTask)
		r.Put("/task/edit/{id}", taskHandler.EditTask)
		r.Post("/task/edit/{id}", taskHandler.EditTask)
		r.Delete("/task/edit/{id}", taskHandler.DeleteTask)
		r.Delete("/task/delete/{id}", taskHandler.DeleteTask)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
