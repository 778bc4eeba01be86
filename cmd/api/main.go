package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"kgraph-backend/internal/config"
	"kgraph-backend/internal/handlers"
	"kgraph-backend/internal/observability"
	"kgraph-backend/internal/service/graph"
	"kgraph-backend/internal/sparql"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	collector := observability.NewCollector("kgraph")

	var executor sparql.Executor = sparql.NewClient(
		cfg.Endpoint.QueryURL,
		cfg.Endpoint.UpdateURL,
		cfg.Endpoint.Timeout,
		logger,
	)

	if cfg.Features.EnableTracing {
		tp, err := observability.InitTracing("kgraph-backend", string(cfg.Environment), cfg.Tracing.OTLPEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Warn("Tracer shutdown error", zap.Error(err))
			}
		}()
		executor = sparql.NewTracedExecutor(executor, tp.Tracer())
	}

	executor = sparql.NewBreakerExecutor(executor, sparql.BreakerConfig{
		Name:             "sparql-endpoint",
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
		MinRequests:      cfg.Breaker.MinRequests,
	}, logger)

	service, err := graph.NewService(executor, cfg.Cache.Capacity, collector, logger)
	if err != nil {
		logger.Fatal("Failed to create graph service", zap.Error(err))
	}

	watcher, err := config.NewWatcher(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create config watcher", zap.Error(err))
	}
	defer watcher.Stop()
	watcher.OnChange(func(updated *config.Config) {
		logger.Info("Configuration changed; restart required for server settings",
			zap.String("log_level", updated.LogLevel),
		)
	})

	router := handlers.NewRouter(cfg, service, collector, logger)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.Address()),
			zap.String("environment", string(cfg.Environment)),
			zap.String("query_endpoint", cfg.Endpoint.QueryURL),
			zap.Int("cache_capacity", cfg.Cache.Capacity),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

// newLogger builds the zap logger for the configured environment and level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
