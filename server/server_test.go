package server

import (
	"testing"

	"pushrelay/pkg/config"
)

func testConfig() *config.ServerConfig {
	cfg := config.DefaultConfig()
	cfg.Database.Type = "none"
	return cfg
}

// TestServerInitialization tests basic server creation
func TestServerInitialization(t *testing.T) {
	srv := NewServer(testConfig())
	if srv == nil {
		t.Fatal("Server should not be nil")
	}
	if srv.registry == nil {
		t.Error("Server registry should be initialized")
	}
	if srv.rooms == nil {
		t.Error("Server room directory should be initialized")
	}
	if srv.router == nil {
		t.Error("Server router should be initialized")
	}
	if srv.engine == nil {
		t.Error("Server engine should be initialized")
	}
}

// TestServerStoreDisabled tests that a "none" database disables auditing
func TestServerStoreDisabled(t *testing.T) {
	srv := NewServer(testConfig())
	if srv.store != nil {
		t.Error("Store should be nil when auditing is disabled")
	}
}

// TestServerConfigAddress tests server config address
func TestServerConfigAddress(t *testing.T) {
	cfg := testConfig()
	cfg.Address = "0.0.0.0:9000"

	srv := NewServer(cfg)
	if srv.config.Address != "0.0.0.0:9000" {
		t.Errorf("Expected address 0.0.0.0:9000, got %s", srv.config.Address)
	}
}

// TestServerHandler tests that the HTTP handler is exposed
func TestServerHandler(t *testing.T) {
	srv := NewServer(testConfig())
	if srv.Handler() == nil {
		t.Error("Handler should not be nil")
	}
}
