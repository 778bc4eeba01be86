package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	appErrors "kgraph-backend/pkg/errors"
)

// overlay is the YAML file shape. Every field is optional; absent fields
// leave the environment-derived value alone. Durations are strings in
// time.ParseDuration syntax ("30s", "1m30s").
type overlay struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	Server struct {
		Host            string `yaml:"host"`
		Port            int    `yaml:"port"`
		ReadTimeout     string `yaml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout"`
		IdleTimeout     string `yaml:"idle_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Endpoint struct {
		QueryURL  string `yaml:"query_url"`
		UpdateURL string `yaml:"update_url"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"endpoint"`

	Cache struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"cache"`

	Breaker struct {
		MaxRequests      int     `yaml:"max_requests"`
		Interval         string  `yaml:"interval"`
		Timeout          string  `yaml:"timeout"`
		FailureThreshold float64 `yaml:"failure_threshold"`
		MinRequests      int     `yaml:"min_requests"`
	} `yaml:"breaker"`

	Tracing struct {
		OTLPEndpoint string `yaml:"otlp_endpoint"`
	} `yaml:"tracing"`

	Features struct {
		EnableMetrics *bool `yaml:"enable_metrics"`
		EnableTracing *bool `yaml:"enable_tracing"`
		EnableCORS    *bool `yaml:"enable_cors"`
	} `yaml:"features"`
}

// applyOverlay merges the YAML file at path over cfg.
func applyOverlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return appErrors.NewValidation(fmt.Sprintf("cannot read config file %s: %v", path, err))
	}

	var o overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return appErrors.NewValidation(fmt.Sprintf("cannot parse config file %s: %v", path, err))
	}

	if o.Environment != "" {
		cfg.Environment = Environment(o.Environment)
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	if o.Server.Host != "" {
		cfg.Server.Host = o.Server.Host
	}
	if o.Server.Port != 0 {
		cfg.Server.Port = o.Server.Port
	}
	if err := overlayDuration(&cfg.Server.ReadTimeout, o.Server.ReadTimeout, path); err != nil {
		return err
	}
	if err := overlayDuration(&cfg.Server.WriteTimeout, o.Server.WriteTimeout, path); err != nil {
		return err
	}
	if err := overlayDuration(&cfg.Server.IdleTimeout, o.Server.IdleTimeout, path); err != nil {
		return err
	}
	if err := overlayDuration(&cfg.Server.ShutdownTimeout, o.Server.ShutdownTimeout, path); err != nil {
		return err
	}

	if o.Endpoint.QueryURL != "" {
		cfg.Endpoint.QueryURL = o.Endpoint.QueryURL
	}
	if o.Endpoint.UpdateURL != "" {
		cfg.Endpoint.UpdateURL = o.Endpoint.UpdateURL
	}
	if err := overlayDuration(&cfg.Endpoint.Timeout, o.Endpoint.Timeout, path); err != nil {
		return err
	}

	if o.Cache.Capacity != 0 {
		cfg.Cache.Capacity = o.Cache.Capacity
	}

	if o.Breaker.MaxRequests != 0 {
		cfg.Breaker.MaxRequests = uint32(o.Breaker.MaxRequests)
	}
	if err := overlayDuration(&cfg.Breaker.Interval, o.Breaker.Interval, path); err != nil {
		return err
	}
	if err := overlayDuration(&cfg.Breaker.Timeout, o.Breaker.Timeout, path); err != nil {
		return err
	}
	if o.Breaker.FailureThreshold != 0 {
		cfg.Breaker.FailureThreshold = o.Breaker.FailureThreshold
	}
	if o.Breaker.MinRequests != 0 {
		cfg.Breaker.MinRequests = uint32(o.Breaker.MinRequests)
	}

	if o.Tracing.OTLPEndpoint != "" {
		cfg.Tracing.OTLPEndpoint = o.Tracing.OTLPEndpoint
	}

	if o.Features.EnableMetrics != nil {
		cfg.Features.EnableMetrics = *o.Features.EnableMetrics
	}
	if o.Features.EnableTracing != nil {
		cfg.Features.EnableTracing = *o.Features.EnableTracing
	}
	if o.Features.EnableCORS != nil {
		cfg.Features.EnableCORS = *o.Features.EnableCORS
	}

	return nil
}

func overlayDuration(dst *time.Duration, raw, path string) error {
	if raw == "" {
		return nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return appErrors.NewValidation(fmt.Sprintf("invalid duration %q in config file %s: %v", raw, path, err))
	}
	*dst = parsed

	return nil
}
