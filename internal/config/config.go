// Package config provides configuration management for the kgraph backend.
// Configuration is environment-first with development defaults, optionally
// overlaid by a YAML file, and validated before use.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "kgraph-backend/pkg/errors"
)

// Environment identifies the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config holds all application configuration
type Config struct {
	Environment Environment `validate:"required,oneof=development staging production"`
	LogLevel    string      `validate:"required,oneof=debug info warn error"`

	Server   Server
	Endpoint Endpoint
	Cache    Cache
	Breaker  Breaker
	Tracing  Tracing
	Features Features
}

// Server holds HTTP server settings.
type Server struct {
	Host            string
	Port            int           `validate:"required,min=1,max=65535"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// Endpoint holds the remote SPARQL endpoint pair.
type Endpoint struct {
	QueryURL  string        `validate:"required,url"`
	UpdateURL string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`
}

// Cache holds result cache settings. Capacity is the maximum number of
// cached query results before LRU eviction begins.
type Cache struct {
	Capacity int `validate:"gt=0"`
}

// Breaker holds circuit breaker settings for the remote executor.
type Breaker struct {
	MaxRequests      uint32        `validate:"gt=0"`
	Interval         time.Duration `validate:"gt=0"`
	Timeout          time.Duration `validate:"gt=0"`
	FailureThreshold float64       `validate:"gt=0,lte=1"`
	MinRequests      uint32        `validate:"gt=0"`
}

// Tracing holds OTLP exporter settings.
type Tracing struct {
	OTLPEndpoint string
}

// Features contains feature flags for the application
type Features struct {
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables with development
// defaults, applies the optional CONFIG_FILE YAML overlay, and validates the
// result.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: Environment(getEnv("ENVIRONMENT", string(Development))),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Server: Server{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},

		Endpoint: Endpoint{
			QueryURL:  getEnv("SPARQL_QUERY_URL", "http://localhost:3030/kg/query"),
			UpdateURL: getEnv("SPARQL_UPDATE_URL", "http://localhost:3030/kg/update"),
			Timeout:   getEnvDuration("SPARQL_TIMEOUT", 30*time.Second),
		},

		Cache: Cache{
			Capacity: getEnvInt("CACHE_CAPACITY", 1000),
		},

		Breaker: Breaker{
			MaxRequests:      uint32(getEnvInt("BREAKER_MAX_REQUESTS", 5)),
			Interval:         getEnvDuration("BREAKER_INTERVAL", 30*time.Second),
			Timeout:          getEnvDuration("BREAKER_TIMEOUT", 60*time.Second),
			FailureThreshold: getEnvFloat("BREAKER_FAILURE_THRESHOLD", 0.8),
			MinRequests:      uint32(getEnvInt("BREAKER_MIN_REQUESTS", 5)),
		},

		Tracing: Tracing{
			OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
		},

		Features: Features{
			EnableMetrics: getEnvBool("ENABLE_METRICS", true),
			EnableTracing: getEnvBool("ENABLE_TRACING", false),
			EnableCORS:    getEnvBool("ENABLE_CORS", true),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyOverlay(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration with struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return appErrors.NewValidation(fmt.Sprintf("invalid configuration: %v", err))
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
