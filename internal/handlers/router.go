package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"kgraph-backend/internal/config"
	"kgraph-backend/internal/middleware"
	"kgraph-backend/internal/observability"
	"kgraph-backend/internal/service/graph"
)

// NewRouter assembles the HTTP routing tree with the middleware chain.
func NewRouter(cfg *config.Config, service graph.Service, collector *observability.Collector, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	if cfg.Features.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	if cfg.Features.EnableMetrics {
		r.Use(middleware.Metrics(collector))
	}

	graphHandler := NewGraphHandler(service, logger)
	healthHandler := NewHealthHandler(cfg)

	r.Route("/api", func(r chi.Router) {
		r.Post("/query", graphHandler.Query)
		r.Post("/update", graphHandler.Update)
		r.Get("/cache/stats", graphHandler.CacheStats)
	})

	r.Get("/health", healthHandler.Health)
	if cfg.Features.EnableMetrics {
		r.Handle("/metrics", collector.Handler())
	}

	return r
}
