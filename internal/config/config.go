// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ModelPath points at the fitted pipeline artifact.
	ModelPath string `koanf:"model_path"`

	// SkillsPath points at the skill reference CSV.
	SkillsPath string `koanf:"skills_path"`

	// PredictTimeoutMS bounds every predictor call. 0 disables the bound.
	PredictTimeoutMS int `koanf:"predict_timeout_ms"`

	// SweepConcurrency caps predictor calls in flight per sweep.
	SweepConcurrency int `koanf:"sweep_concurrency"`

	// GrowthThreshold is the headline rate above which the outlook is promising.
	GrowthThreshold float64 `koanf:"growth_threshold"`

	// RedisAddr enables the prediction cache when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheTTLSeconds and CachePrefix tune the prediction cache.
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`
	CachePrefix     string `koanf:"cache_prefix"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		ModelPath:        "data/model_pipeline.json",
		SkillsPath:       "data/high_skills.csv",
		PredictTimeoutMS: 2000,
		SweepConcurrency: 4,
		GrowthThreshold:  4.0,
		CacheTTLSeconds:  600,
		CachePrefix:      "growthdash:pred:",
	}
}

// PredictTimeout returns the per-call predictor bound.
func (c *Config) PredictTimeout() time.Duration {
	return time.Duration(c.PredictTimeoutMS) * time.Millisecond
}

// CacheTTL returns how long cached predictions live.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// CacheEnabled reports whether a Redis address is configured.
func (c *Config) CacheEnabled() bool { return c.RedisAddr != "" }

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.ModelPath == "":
		return fmt.Errorf("%w: model_path must not be empty", ErrInvalidConfig)
	case c.SkillsPath == "":
		return fmt.Errorf("%w: skills_path must not be empty", ErrInvalidConfig)
	case c.PredictTimeoutMS < 0:
		return fmt.Errorf("%w: predict_timeout_ms must not be negative", ErrInvalidConfig)
	case c.SweepConcurrency < 1:
		return fmt.Errorf("%w: sweep_concurrency must be at least 1", ErrInvalidConfig)
	case c.RedisDB < 0:
		return fmt.Errorf("%w: redis_db must not be negative", ErrInvalidConfig)
	case c.CacheEnabled() && c.CacheTTLSeconds <= 0:
		return fmt.Errorf("%w: cache_ttl_seconds must be positive when redis_addr is set", ErrInvalidConfig)
	}
	return nil
}
