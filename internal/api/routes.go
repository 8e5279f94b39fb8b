package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/worldsmith/almanac/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Read routes are public; every mutating route sits behind the API-key
// middleware. /metrics is served unwrapped by the Prometheus handler.
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.Get("/health", handlers.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads
		r.Get("/calendar", handlers.GetCalendar)
		r.Get("/now", handlers.GetNow)
		r.Get("/convert", handlers.ConvertFromLinear)
		r.Get("/export", handlers.Export)

		// Mutations (authenticated)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))

			r.Put("/calendar", handlers.PutCalendar)
			r.Post("/advance", handlers.Advance)
			r.Post("/date", handlers.SetDate)
			r.Post("/time", handlers.SetTime)
			r.Post("/sync", handlers.SetSync)
			r.Post("/convert", handlers.ConvertToLinear)
			r.Post("/import", handlers.Import)
		})
	})

	return r
}
