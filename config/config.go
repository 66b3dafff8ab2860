// Package config loads and validates the gateway configuration. The core
// packages consume already-validated values; they never read files or
// environment themselves.
package config

import (
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// Config is the process configuration.
type Config struct {
	// Listen is the address the HTTP transport binds to.
	Listen string `json:"listen" yaml:"listen" validate:"required,hostname_port"`
	// Endpoint is the path serving the protocol.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"omitempty,startswith=/"`
	// LogLevel is one of debug|info|warning|error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warning error"`

	Weather WeatherConfig `json:"weather,omitempty" yaml:"weather,omitempty"`
	Cache   CacheConfig   `json:"cache,omitempty" yaml:"cache,omitempty"`
}

// WeatherConfig configures the weather tool.
type WeatherConfig struct {
	// ForecastURL and GeocodeURL override the Open-Meteo endpoints,
	// mainly for tests and local mirrors.
	ForecastURL string `json:"forecast_url,omitempty" yaml:"forecast_url,omitempty" validate:"omitempty,url"`
	GeocodeURL  string `json:"geocode_url,omitempty" yaml:"geocode_url,omitempty" validate:"omitempty,url"`
	// TimeoutSec bounds each outbound call the tool makes, in seconds.
	TimeoutSec int `json:"timeout_sec,omitempty" yaml:"timeout_sec,omitempty" validate:"omitempty,gte=0"`
}

// CacheConfig configures the tool-side cache.
type CacheConfig struct {
	// RedisAddr enables the shared Redis cache when set; otherwise an
	// in-process cache is used.
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" validate:"omitempty,hostname_port"`
	// Prefix namespaces the Redis keys.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Default values applied before validation.
const (
	DefaultListen   = ":8080"
	DefaultEndpoint = "/rpc"
	DefaultLogLevel = "info"
)

// Load reads the configuration from file, expanding environment
// variables. An empty file name yields the defaults.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}
