// Package graph implements the remote knowledge-graph facade: a single
// query/update API over a remote SPARQL endpoint with a bounded LRU result
// cache in front of the read path.
package graph

import (
	"context"
	"time"

	"go.uber.org/zap"

	"kgraph-backend/internal/cache"
	"kgraph-backend/internal/observability"
	"kgraph-backend/internal/sparql"
)

// Service is the public surface of the graph facade.
//
// Reads are cached read-through: a miss fetches from the remote executor and
// stores the result under the serialized query. Writes invalidate the whole
// cache after the mutation is confirmed; the facade has no dependency
// tracking between queries and the data they read, so every mutation is
// treated as possibly affecting everything cached. A query miss that is
// in flight across a concurrent update can store one stale result after the
// update's clear; the staleness window is bounded by the next write.
type Service interface {
	// Query returns the binding rows for q, from cache when possible.
	Query(ctx context.Context, q string) ([]sparql.Row, error)

	// Update runs a mutation and, on success only, clears the result cache.
	Update(ctx context.Context, u string) error

	// CacheStats reports the result cache counters.
	CacheStats() cache.Stats
}

type service struct {
	executor sparql.Executor
	// results is owned exclusively by this facade instance. One cache per
	// remote endpoint: clearing this endpoint's results can never touch
	// another endpoint's.
	results *cache.LRU[[]sparql.Row]
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewService creates the facade. The result cache is constructed eagerly
// here so there is no first-call initialization to synchronize later.
func NewService(executor sparql.Executor, cacheCapacity int, metrics *observability.Collector, logger *zap.Logger) (Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	results, err := cache.New[[]sparql.Row](cacheCapacity, logger)
	if err != nil {
		return nil, err
	}

	return &service{
		executor: executor,
		results:  results,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

func (s *service) Query(ctx context.Context, q string) ([]sparql.Row, error) {
	// The query string itself is the cache key. Callers are responsible
	// for a stable serialization; no normalization happens here.
	if rows, ok := s.results.Get(ctx, q); ok {
		s.metrics.CacheHits.Inc()
		s.metrics.GraphQueries.WithLabelValues("hit").Inc()
		s.logger.Debug("Query served from cache",
			zap.Int("rows", len(rows)),
		)
		return rows, nil
	}
	s.metrics.CacheMisses.Inc()

	start := time.Now()
	rows, err := s.executor.Select(ctx, q)
	s.metrics.RemoteDuration.WithLabelValues("select").Observe(time.Since(start).Seconds())
	if err != nil {
		// A failed fetch never populates the cache; the error is passed
		// through unchanged.
		s.metrics.GraphQueries.WithLabelValues("error").Inc()
		return nil, err
	}

	s.results.Set(ctx, q, rows)
	s.metrics.CacheEntries.Set(float64(s.results.Len()))
	s.metrics.GraphQueries.WithLabelValues("miss").Inc()

	s.logger.Debug("Query fetched from remote endpoint",
		zap.Int("rows", len(rows)),
		zap.Duration("duration", time.Since(start)),
	)

	return rows, nil
}

func (s *service) Update(ctx context.Context, u string) error {
	start := time.Now()
	err := s.executor.Update(ctx, u)
	s.metrics.RemoteDuration.WithLabelValues("update").Observe(time.Since(start).Seconds())
	if err != nil {
		// The mutation never took effect, so cached results are stale-free;
		// leave the cache untouched.
		s.metrics.GraphUpdates.WithLabelValues("failure").Inc()
		return err
	}

	// Clear only after the mutation is confirmed.
	s.results.Clear(ctx)
	s.metrics.CacheEntries.Set(0)
	s.metrics.GraphUpdates.WithLabelValues("success").Inc()

	s.logger.Info("Remote store mutated, result cache cleared",
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

func (s *service) CacheStats() cache.Stats {
	return s.results.Stats()
}
