package storage

import (
	"database/sql"
	"time"

	relayerr "pushrelay/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore implements Store using a MySQL backend
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL-backed store
func NewMySQLStore(dsn string, maxConns int) (Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	store := &MySQLStore{db: db}
	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initDB initializes the database schema
func (s *MySQLStore) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id VARCHAR(64) PRIMARY KEY,
		remote_addr VARCHAR(255),
		status VARCHAR(16) DEFAULT 'connected',
		connected_at DATETIME,
		disconnected_at DATETIME NULL,
		INDEX idx_sessions_connected_at (connected_at),
		INDEX idx_sessions_status (status)
	)`

	_, err := s.db.Exec(schema)
	return err
}

// SaveSession inserts or replaces a session record
func (s *MySQLStore) SaveSession(rec *SessionRecord) error {
	if s.db == nil {
		return relayerr.ErrStorageNotInitialized
	}

	_, err := s.db.Exec(`
		REPLACE INTO sessions (id, remote_addr, status, connected_at, disconnected_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.RemoteAddr, rec.Status, rec.ConnectedAt, rec.DisconnectedAt)
	return err
}

// CloseSession marks a session as closed
func (s *MySQLStore) CloseSession(id string, at time.Time) error {
	if s.db == nil {
		return relayerr.ErrStorageNotInitialized
	}

	_, err := s.db.Exec(`
		UPDATE sessions SET status = 'closed', disconnected_at = ?
		WHERE id = ? AND status != 'closed'`,
		at, id)
	return err
}

// GetSession returns a single session record
func (s *MySQLStore) GetSession(id string) (*SessionRecord, error) {
	if s.db == nil {
		return nil, relayerr.ErrStorageNotInitialized
	}

	row := s.db.QueryRow(`
		SELECT id, remote_addr, status, connected_at, disconnected_at
		FROM sessions WHERE id = ?`, id)

	rec, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, relayerr.ErrSessionNotFound
	}
	return rec, err
}

// GetRecentSessions returns up to limit records, newest connections first
func (s *MySQLStore) GetRecentSessions(limit int) ([]*SessionRecord, error) {
	if s.db == nil {
		return nil, relayerr.ErrStorageNotInitialized
	}

	rows, err := s.db.Query(`
		SELECT id, remote_addr, status, connected_at, disconnected_at
		FROM sessions ORDER BY connected_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PurgeBefore deletes closed sessions that disconnected before cutoff
func (s *MySQLStore) PurgeBefore(cutoff time.Time) error {
	if s.db == nil {
		return relayerr.ErrStorageNotInitialized
	}

	_, err := s.db.Exec(`
		DELETE FROM sessions WHERE status = 'closed' AND disconnected_at < ?`, cutoff)
	return err
}

// Close releases the underlying database
func (s *MySQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
