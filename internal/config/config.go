// Package config provides configuration management for the content API client.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"bvapi/internal/normalizer"
	"bvapi/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingAPIKey        = errors.New("api.key is required")
	ErrMissingHost          = errors.New("api.host is required")
	ErrInvalidHost          = errors.New("api.host and api.proxy_host must be valid host names")
	ErrInvalidScheme        = errors.New("api.scheme must be 'http' or 'https'")
	ErrInvalidPort          = errors.New("api.port must be between 1 and 65535")
	ErrMissingAPIVersion    = errors.New("api.version is required")
	ErrInvalidTimeout       = errors.New("api.timeout_sec must be at least 1")
	ErrInvalidResponseLimit = errors.New("api.max_response_kb must be at least 1")
	ErrMissingCacheAddrs    = errors.New("cache.addrs is required when cache is enabled")
	ErrInvalidCacheTTL      = errors.New("cache.ttl_sec must be at least 1")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'text' or 'json'")
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey      = "BVAPI_KEY"
	EnvHost        = "BVAPI_HOST"
	EnvEncodingKey = "BVAPI_ENCODING_KEY"
	EnvRedisAddrs  = "BVAPI_REDIS_ADDRS"
)

// Config represents the complete client configuration.
type Config struct {
	API        APIConfig          `yaml:"api"`
	Normalizer normalizer.Options `yaml:"normalizer"`
	Cache      CacheConfig        `yaml:"cache"`
	Logging    LoggingConfig      `yaml:"logging"`
}

// APIConfig describes how to reach the content API.
type APIConfig struct {
	Key           string `yaml:"key"`
	Host          string `yaml:"host"`
	ProxyHost     string `yaml:"proxy_host"`
	EncodingKey   string `yaml:"encoding_key"`
	VirtualEnv    string `yaml:"virtual_env"`
	Version       string `yaml:"version"`
	Scheme        string `yaml:"scheme"`
	Port          int    `yaml:"port"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	MaxResponseKb int    `yaml:"max_response_kb"`
	Staging       bool   `yaml:"staging"`
}

// CacheConfig controls the optional raw response cache.
type CacheConfig struct {
	Addrs    string `yaml:"addrs"`
	PoolSize int    `yaml:"pool_size"`
	TTLSec   int    `yaml:"ttl_sec"`
	Enabled  bool   `yaml:"enabled"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a configuration with every optional field filled in.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Version:       "5.0",
			Scheme:        "http",
			Port:          80,
			TimeoutSec:    30,
			MaxResponseKb: 10 * 1024,
		},
		Cache: CacheConfig{
			Addrs:    "localhost:6379",
			PoolSize: 10,
			TTLSec:   300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from YAML file on top of DefaultConfig.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides credentials and hosts from the environment when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.API.Key = v
	}

	if v := os.Getenv(EnvHost); v != "" {
		c.API.Host = v
	}

	if v := os.Getenv(EnvEncodingKey); v != "" {
		c.API.EncodingKey = v
	}

	if v := os.Getenv(EnvRedisAddrs); v != "" {
		c.Cache.Addrs = v
		c.Cache.Enabled = true
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}

	if c.Cache.Enabled {
		if strings.TrimSpace(c.Cache.Addrs) == "" {
			return ErrMissingCacheAddrs
		}

		if c.Cache.TTLSec < 1 {
			return ErrInvalidCacheTTL
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// Validate validates the API section.
func (a *APIConfig) Validate() error {
	if a.Key == "" {
		return ErrMissingAPIKey
	}

	if a.Host == "" {
		return ErrMissingHost
	}

	if a.Scheme != "http" && a.Scheme != "https" {
		return ErrInvalidScheme
	}

	if !utils.IsValidURL(a.Scheme + "://" + a.Host) {
		return ErrInvalidHost
	}

	if a.ProxyHost != "" && !utils.IsValidURL(a.Scheme + "://" + a.ProxyHost) {
		return ErrInvalidHost
	}

	if a.Port < 1 || a.Port > 65535 {
		return ErrInvalidPort
	}

	if a.Version == "" {
		return ErrMissingAPIVersion
	}

	if a.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if a.MaxResponseKb < 1 {
		return ErrInvalidResponseLimit
	}

	return nil
}

// GetTimeout returns the HTTP timeout duration.
func (a *APIConfig) GetTimeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

// GetMaxResponseBytes returns the response body limit in bytes.
func (a *APIConfig) GetMaxResponseBytes() int64 {
	return int64(a.MaxResponseKb) * 1024
}

// GetTTL returns the cache entry lifetime.
func (cc *CacheConfig) GetTTL() time.Duration {
	return time.Duration(cc.TTLSec) * time.Second
}

// String returns a string representation of the config without credentials.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Host: %s, Version: %s, Staging: %t, Cache: %t, AllowedStatuses: %v}",
		c.API.Host,
		c.API.Version,
		c.API.Staging,
		c.Cache.Enabled,
		c.Normalizer.AllowedStatuses,
	)
}
