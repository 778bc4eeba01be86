package handlers

import (
	"net/http"

	"kgraph-backend/internal/config"
	"kgraph-backend/pkg/api"
)

// HealthHandler serves liveness probes.
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, api.HealthResponse{
		Status:      "ok",
		Environment: string(h.cfg.Environment),
	})
}
