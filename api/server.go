/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

SECURITY NOTE:
  No authentication middleware. Access control is access to the backing
  store, nothing more.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Record routes
		r.Route("/records", func(r chi.Router) {
			r.Get("/", h.ListRecords)
			r.Post("/", h.CreateRecord)
			r.Put("/{id}", h.UpdateRecord)
			r.Delete("/", h.DeleteRecords)
			r.Delete("/all", h.DeleteAllRecords)
		})

		// Staff routes
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.ListStaff)
			r.Post("/", h.AddStaff)
			r.Delete("/", h.RemoveStaff)
		})

		// Summary routes
		r.Route("/summary", func(r chi.Router) {
			r.Get("/", h.GetSummary)
			r.Get("/monthly", h.GetMonthlySummary)
		})

		// Meta routes
		r.Get("/meta/durations", h.GetDurationOptions)

		// Export route
		r.Get("/export", h.Export)
	})

	return r
}
