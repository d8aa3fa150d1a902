package storage

import (
	"database/sql"
	"time"

	relayerr "pushrelay/pkg/errors"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using a SQLite backend
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed store
func NewSQLiteStore(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initDB initializes the database schema
func (s *SQLiteStore) initDB() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		remote_addr TEXT,
		status TEXT DEFAULT 'connected',
		connected_at DATETIME,
		disconnected_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_connected_at ON sessions(connected_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveSession inserts or replaces a session record
func (s *SQLiteStore) SaveSession(rec *SessionRecord) error {
	if s.db == nil {
		return relayerr.ErrStorageNotInitialized
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO sessions (id, remote_addr, status, connected_at, disconnected_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.RemoteAddr, rec.Status, rec.ConnectedAt, rec.DisconnectedAt)
	return err
}

// CloseSession marks a session as closed
func (s *SQLiteStore) CloseSession(id string, at time.Time) error {
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
func (s *SQLiteStore) GetSession(id string) (*SessionRecord, error) {
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
func (s *SQLiteStore) GetRecentSessions(limit int) ([]*SessionRecord, error) {
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
func (s *SQLiteStore) PurgeBefore(cutoff time.Time) error {
	if s.db == nil {
		return relayerr.ErrStorageNotInitialized
	}

	_, err := s.db.Exec(`
		DELETE FROM sessions WHERE status = 'closed' AND disconnected_at < ?`, cutoff)
	return err
}

// Close releases the underlying database
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (*SessionRecord, error) {
	var rec SessionRecord
	var disconnectedAt sql.NullTime
	if err := row.Scan(&rec.ID, &rec.RemoteAddr, &rec.Status, &rec.ConnectedAt, &disconnectedAt); err != nil {
		return nil, err
	}
	if disconnectedAt.Valid {
		rec.DisconnectedAt = &disconnectedAt.Time
	}
	return &rec, nil
}
