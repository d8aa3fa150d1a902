package storage

import (
	"fmt"

	"pushrelay/pkg/config"
)

// New creates a Store for the configured backend.
// Type "none" returns a nil store; callers treat that as auditing disabled.
func New(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Type {
	case "none", "":
		return nil, nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "mysql":
		return NewMySQLStore(cfg.DSN, cfg.MaxConnections)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
