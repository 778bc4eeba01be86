// Package handlers implements the HTTP handlers for the query/update API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"kgraph-backend/internal/service/graph"
	"kgraph-backend/pkg/api"
)

// GraphHandler exposes the graph facade over HTTP.
type GraphHandler struct {
	service graph.Service
	logger  *zap.Logger
}

// NewGraphHandler creates a handler around the graph service.
func NewGraphHandler(service graph.Service, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{
		service: service,
		logger:  logger,
	}
}

// Query handles POST /api/query.
func (h *GraphHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req api.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	rows, err := h.service.Query(r.Context(), req.Query)
	if err != nil {
		h.respondError(w, r, "query failed", err)
		return
	}

	resp := api.QueryResponse{
		Rows:  make([]map[string]string, len(rows)),
		Count: len(rows),
	}
	for i, row := range rows {
		resp.Rows[i] = row
	}

	api.Success(w, http.StatusOK, resp)
}

// Update handles POST /api/update.
func (h *GraphHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Update == "" {
		api.Error(w, http.StatusBadRequest, "update must not be empty")
		return
	}

	if err := h.service.Update(r.Context(), req.Update); err != nil {
		h.respondError(w, r, "update failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CacheStats handles GET /api/cache/stats.
func (h *GraphHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.service.CacheStats()

	api.Success(w, http.StatusOK, api.CacheStatsResponse{
		Hits:      stats.Hits,
		Misses:    stats.Misses,
		Evictions: stats.Evictions,
		Entries:   stats.Entries,
		Capacity:  stats.Capacity,
		HitRate:   stats.HitRate,
	})
}

func (h *GraphHandler) respondError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := api.StatusFor(err)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		status = http.StatusServiceUnavailable
	}

	h.logger.Error(message,
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", r.URL.Path),
	)

	api.Error(w, status, err.Error())
}
