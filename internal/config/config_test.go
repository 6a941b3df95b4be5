package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
api:
  key: "test-passkey"
  host: "reviews.example.com"
  staging: true
  virtual_env: "qa"
normalizer:
  allowed_statuses: ["Approved"]
cache:
  enabled: true
  addrs: "redis-1:6379,redis-2:6379"
  ttl_sec: 60
logging:
  level: "debug"
  format: "json"
`

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.API.Key = "key"
	cfg.API.Host = "reviews.example.com"

	return cfg
}

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.Key != "test-passkey" {
		t.Errorf("Expected key 'test-passkey', got '%s'", cfg.API.Key)
	}

	if !cfg.API.Staging || cfg.API.VirtualEnv != "qa" {
		t.Errorf("Expected staging qa environment, got %+v", cfg.API)
	}

	// Defaults survive for fields the file omits.
	if cfg.API.Version != "5.0" || cfg.API.Port != 80 || cfg.API.Scheme != "http" {
		t.Errorf("Expected defaults for version/port/scheme, got %+v", cfg.API)
	}

	if len(cfg.Normalizer.AllowedStatuses) != 1 || cfg.Normalizer.AllowedStatuses[0] != "Approved" {
		t.Errorf("Expected allowed statuses [Approved], got %v", cfg.Normalizer.AllowedStatuses)
	}

	if cfg.Cache.PoolSize != 10 || cfg.Cache.GetTTL() != time.Minute {
		t.Errorf("Unexpected cache config %+v", cfg.Cache)
	}
}

func TestLoadConfig_NoAllowedStatuses(t *testing.T) {
	configPath := createTempConfigFile(t, `
api:
  key: "k"
  host: "h"
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Normalizer.AllowedStatuses != nil {
		t.Errorf("Expected nil allowed statuses, got %v", cfg.Normalizer.AllowedStatuses)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvHost, "env.example.com")
	t.Setenv(EnvEncodingKey, "secret")

	configPath := createTempConfigFile(t, "logging:\n  level: info\n")

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.Key != "env-key" || cfg.API.Host != "env.example.com" || cfg.API.EncodingKey != "secret" {
		t.Errorf("Environment overrides not applied: %+v", cfg.API)
	}
}

func TestConfig_ApplyEnv_Redis(t *testing.T) {
	t.Setenv(EnvRedisAddrs, "cache:6379")

	cfg := validConfig()
	cfg.ApplyEnv()

	if !cfg.Cache.Enabled || cfg.Cache.Addrs != "cache:6379" {
		t.Errorf("Expected redis cache enabled from env, got %+v", cfg.Cache)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"Valid", func(c *Config) {}, nil},
		{"Missing key", func(c *Config) { c.API.Key = "" }, ErrMissingAPIKey},
		{"Missing host", func(c *Config) { c.API.Host = "" }, ErrMissingHost},
		{"Bad scheme", func(c *Config) { c.API.Scheme = "ftp" }, ErrInvalidScheme},
		{"Bad host", func(c *Config) { c.API.Host = "bad host" }, ErrInvalidHost},
		{"Bad proxy host", func(c *Config) { c.API.ProxyHost = "proxy host" }, ErrInvalidHost},
		{"Bad port", func(c *Config) { c.API.Port = 0 }, ErrInvalidPort},
		{"Missing version", func(c *Config) { c.API.Version = "" }, ErrMissingAPIVersion},
		{"Bad timeout", func(c *Config) { c.API.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"Bad response limit", func(c *Config) { c.API.MaxResponseKb = 0 }, ErrInvalidResponseLimit},
		{"Cache without addrs", func(c *Config) { c.Cache.Enabled = true; c.Cache.Addrs = " " }, ErrMissingCacheAddrs},
		{"Cache without TTL", func(c *Config) { c.Cache.Enabled = true; c.Cache.TTLSec = 0 }, ErrInvalidCacheTTL},
		{"Disabled cache ignores TTL", func(c *Config) { c.Cache.TTLSec = 0 }, nil},
		{"Bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"Bad log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAPIConfig_Helpers(t *testing.T) {
	a := APIConfig{TimeoutSec: 30, MaxResponseKb: 2}

	if got := a.GetTimeout(); got != 30*time.Second {
		t.Errorf("GetTimeout() = %v, want 30s", got)
	}

	if got := a.GetMaxResponseBytes(); got != 2048 {
		t.Errorf("GetMaxResponseBytes() = %d, want 2048", got)
	}
}

func TestConfig_String_RedactsCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.API.Key = "super-secret-passkey"
	cfg.API.EncodingKey = "super-secret-encoding"

	str := cfg.String()
	if str == "" {
		t.Fatal("Expected non-empty string representation")
	}

	if strings.Contains(str, "super-secret") {
		t.Errorf("String() leaked credentials: %s", str)
	}
}

func TestConfig_SaveConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Normalizer.AllowedStatuses = []string{"Approved", "Pending"}

	tmpDir := t.TempDir()
	savePath := filepath.Join(tmpDir, "saved_config.yaml")

	err := cfg.SaveConfig(savePath)
	if err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	// Verify we can load it back
	loaded, err := LoadConfig(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.API.Host != cfg.API.Host || len(loaded.Normalizer.AllowedStatuses) != 2 {
		t.Error("Loaded config does not match saved config")
	}
}
