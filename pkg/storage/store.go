package storage

import "time"

// SessionRecord is one row of the connection audit log
type SessionRecord struct {
	ID             string     `json:"id"`
	RemoteAddr     string     `json:"remote_addr"`
	Status         string     `json:"status"` // connected | closed
	ConnectedAt    time.Time  `json:"connected_at"`
	DisconnectedAt *time.Time `json:"disconnected_at,omitempty"`
}

// Store defines the interface for the session audit log. All operations are
// best-effort from the relay's point of view: a failing store never blocks
// routing or session handling.
type Store interface {
	// SaveSession inserts or replaces a session record
	SaveSession(rec *SessionRecord) error

	// CloseSession marks a session as closed at the given time.
	// Closing an already closed or unknown session is a no-op.
	CloseSession(id string, at time.Time) error

	// GetSession returns a single session record
	GetSession(id string) (*SessionRecord, error)

	// GetRecentSessions returns up to limit records, newest connections first
	GetRecentSessions(limit int) ([]*SessionRecord, error)

	// PurgeBefore deletes closed sessions that disconnected before cutoff
	PurgeBefore(cutoff time.Time) error

	// Close releases the underlying database
	Close() error
}
