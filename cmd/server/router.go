package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/phrazzld/taskapi/internal/api"
	apiMiddleware "github.com/phrazzld/taskapi/internal/api/middleware"
	"github.com/phrazzld/taskapi/internal/api/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.MetricsMiddleware)
	r.Use(middleware.Timeout(app.config.Server.RequestTimeout()))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
	})

	healthHandler := api.NewHealthHandler(app.db)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/tasks", taskHandler.Routes)

	return app.withCORS(r)
}

// withCORS wraps h with a CORS policy when allowed origins are configured.
func (app *application) withCORS(h http.Handler) http.Handler {
	origins := app.config.Server.CORSAllowedOrigins
	if len(origins) == 0 {
		return h
	}

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Accept", "X-Request-Id"}),
		handlers.ExposedHeaders([]string{shared.TraceIDHeader}),
	)(h)
}
