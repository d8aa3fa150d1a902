package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfig tests loading default config
func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg == nil {
		t.Fatal("Config is nil")
	}
}

// TestLoadConfigDefaults tests default values are set
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Address == "" {
		t.Error("Address should not be empty")
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Expected sqlite default database, got %s", cfg.Database.Type)
	}
	if cfg.Relay.SendBuffer < 1 {
		t.Error("Relay send buffer should be positive")
	}
}

// TestLoadConfigFromFile tests YAML loading and defaults merging
func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	data := []byte("address: \":9090\"\nrelay:\n  send_buffer: 64\n  write_timeout_seconds: 5\n  ping_interval_seconds: 15\n  pong_timeout_seconds: 45\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}
	if cfg.Address != ":9090" {
		t.Errorf("Expected address :9090, got %s", cfg.Address)
	}
	if cfg.Relay.SendBuffer != 64 {
		t.Errorf("Expected send buffer 64, got %d", cfg.Relay.SendBuffer)
	}
	// Untouched sections keep defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Logging.Level)
	}
}

// TestEnvOverrides tests environment variable overrides
func TestEnvOverrides(t *testing.T) {
	t.Setenv("RELAY_ADDR", ":7070")
	t.Setenv("DB_TYPE", "none")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Address != ":7070" {
		t.Errorf("Expected address :7070, got %s", cfg.Address)
	}
	if cfg.Database.Type != "none" {
		t.Errorf("Expected database type none, got %s", cfg.Database.Type)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}
}

// TestValidateRejectsBadConfig tests validation failures
func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"empty address", func(c *ServerConfig) { c.Address = "" }},
		{"unknown db type", func(c *ServerConfig) { c.Database.Type = "oracle" }},
		{"sqlite without path", func(c *ServerConfig) { c.Database.Path = "" }},
		{"mysql without dsn", func(c *ServerConfig) { c.Database.Type = "mysql"; c.Database.DSN = "" }},
		{"bad log level", func(c *ServerConfig) { c.Logging.Level = "verbose" }},
		{"pong before ping", func(c *ServerConfig) { c.Relay.PongTimeout = c.Relay.PingInterval }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

// TestConfigString tests String() method
func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.String() == "" {
		t.Error("String() should not return empty string")
	}
}
