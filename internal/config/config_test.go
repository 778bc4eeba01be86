package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgraph-backend/internal/config"
	appErrors "kgraph-backend/pkg/errors"
)

// TestLoadConfig_Defaults verifies the development defaults.
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.Development, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Cache.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Endpoint.Timeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

// TestLoadConfig_Environment tests configuration loading from environment variables.
func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_CAPACITY", "50")
	t.Setenv("SPARQL_QUERY_URL", "http://triples.internal:3030/kg/query")
	t.Setenv("SPARQL_TIMEOUT", "5s")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, config.Production, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Cache.Capacity)
	assert.Equal(t, "http://triples.internal:3030/kg/query", cfg.Endpoint.QueryURL)
	assert.Equal(t, 5*time.Second, cfg.Endpoint.Timeout)
}

// TestLoadConfig_Overlay tests the YAML overlay on top of environment values.
func TestLoadConfig_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kgraph.yaml")
	overlay := `
log_level: debug
server:
  port: 7070
  read_timeout: 5s
cache:
  capacity: 25
endpoint:
  update_url: http://triples.internal:3030/kg/update
features:
  enable_tracing: true
`
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_PORT", "9090") // overlay wins over environment

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 25, cfg.Cache.Capacity)
	assert.Equal(t, "http://triples.internal:3030/kg/update", cfg.Endpoint.UpdateURL)
	assert.True(t, cfg.Features.EnableTracing)
	// Untouched fields keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
}

// TestLoadConfig_Validation tests rejection of invalid configuration.
func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero cache capacity", key: "CACHE_CAPACITY", value: "0"},
		{name: "negative cache capacity", key: "CACHE_CAPACITY", value: "-5"},
		{name: "bad environment", key: "ENVIRONMENT", value: "testing"},
		{name: "bad log level", key: "LOG_LEVEL", value: "trace"},
		{name: "bad query url", key: "SPARQL_QUERY_URL", value: "not-a-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := config.LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, appErrors.IsValidation(err))
		})
	}
}

// TestLoadConfig_BadOverlayFile tests overlay parse failures.
func TestLoadConfig_BadOverlayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := config.LoadConfig()
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}

// TestLoadConfig_BadOverlayDuration tests duration parse failures in the overlay.
func TestLoadConfig_BadOverlayDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint:\n  timeout: soon\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := config.LoadConfig()
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
}
