package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/meridiancap/Fee-Letter-Backend/internal/api/handlers"
	custommiddleware "github.com/meridiancap/Fee-Letter-Backend/internal/api/middleware"
	"github.com/meridiancap/Fee-Letter-Backend/internal/config"
	"github.com/meridiancap/Fee-Letter-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(systemService *service.SystemService, feeLetterService *service.FeeLetterService, datasetService *service.DatasetService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)

			// Token storage is internal-only
			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.APIKeyMiddleware)
				r.Put("/mail-token", systemHandler.MailToken)
			})
		})

		r.Route("/letter", func(r chi.Router) {
			letterHandler := handlers.NewLetterHandler(feeLetterService)
			r.Get("/", letterHandler.Letters)
			r.Post("/preview", letterHandler.Preview)
			r.Post("/send", letterHandler.Send)
			r.Post("/parse", letterHandler.Parse)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", letterHandler.Letter)
			})
		})

		r.Route("/dataset", func(r chi.Router) {
			datasetHandler := handlers.NewDatasetHandler(datasetService)
			r.Get("/status", datasetHandler.Status)
			r.Post("/reload", datasetHandler.Reload)
		})
	})

	return r
}
