// Package api defines the contracts for API requests and responses.
// It decouples the API structure from the internal domain models.
package api

// QueryRequest is the expected body for a POST /api/query request.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse carries the binding rows for a query.
type QueryResponse struct {
	Rows  []map[string]string `json:"rows"`
	Count int                 `json:"count"`
}

// UpdateRequest is the expected body for a POST /api/update request.
type UpdateRequest struct {
	Update string `json:"update"`
}

// CacheStatsResponse reports the result cache counters.
type CacheStatsResponse struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Entries   int     `json:"entries"`
	Capacity  int     `json:"capacity"`
	HitRate   float64 `json:"hitRate"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// ErrorResponse is a standardized error message for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
