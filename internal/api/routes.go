package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-File-Name"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/uploads", h.HandleUpload)

		r.Route("/dashboards/{id}", func(r chi.Router) {
			r.Get("/", h.GetDashboard)
			r.Delete("/", h.DeleteDashboard)
			r.Get("/summary", h.GetSummary)
			r.Get("/rankings", h.GetRankings)
			r.Get("/prompt", h.GetPrompt)
			r.Post("/strategy", h.GenerateStrategy)
			r.Get("/export/csv", h.ExportCSV)
			r.Get("/export/pdf", h.ExportPDF)
		})

		r.Get("/channel/uploads", h.GetChannelUploads)
	})

	return r
}
