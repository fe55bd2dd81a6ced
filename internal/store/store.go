// Package store provides SQLite persistence for received alarms.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/freakms/ha-firecalltracking/internal/model"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	// Build connection string based on database type
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// For in-memory databases, limit to 1 connection to avoid issues
	// with multiple connections getting different databases
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Enable WAL mode for file-based databases (not :memory:)
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS incidents (
		id TEXT PRIMARY KEY,
		type TEXT,
		keyword TEXT,
		unit TEXT,
		vehicles TEXT,
		timestamp TEXT,
		tenant_id TEXT,
		tenant_name TEXT,
		received_at DATETIME NOT NULL,
		batch_pos INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_incidents_received ON incidents(received_at DESC);
	CREATE INDEX IF NOT EXISTS idx_incidents_type ON incidents(type);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveIncidents stores incidents, returning count of new rows inserted.
// Duplicates (by upstream alarm id) are silently ignored via INSERT OR IGNORE.
// The position within the batch is persisted so Recent can reproduce the
// upstream most-recent-first order instead of falling back to id ordering.
// Thread-safe: acquires write lock.
func (s *Store) SaveIncidents(incidents []model.Incident, receivedAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(incidents) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO incidents (
			id, type, keyword, unit, vehicles, timestamp,
			tenant_id, tenant_name, received_at, batch_pos
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for pos, inc := range incidents {
		result, err := stmt.Exec(
			inc.ID,
			inc.Type,
			inc.Keyword,
			inc.Unit,
			inc.Vehicles,
			inc.Timestamp,
			inc.TenantID,
			inc.TenantName,
			receivedAt,
			pos,
		)
		if err != nil {
			return newCount, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}

	return newCount, nil
}

// Recent retrieves the most recently received incidents, newest first.
// Thread-safe: acquires read lock.
func (s *Store) Recent(limit int) ([]model.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, type, keyword, unit, vehicles, timestamp, tenant_id, tenant_name
		FROM incidents
		ORDER BY received_at DESC, batch_pos ASC
		LIMIT ?
	`

	return s.queryIncidents(query, limit)
}

// CountSince returns the number of incidents received after the given time.
// Thread-safe: acquires read lock.
func (s *Store) CountSince(since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM incidents WHERE received_at > ?", since,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// LatestID returns the upstream id of the most recently received incident,
// or "" when the store is empty.
// Thread-safe: acquires read lock.
func (s *Store) LatestID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	err := s.db.QueryRow(
		"SELECT id FROM incidents ORDER BY received_at DESC, batch_pos ASC LIMIT 1",
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// queryIncidents is a helper that executes a query and scans results.
// Caller must hold s.mu (read lock is sufficient).
func (s *Store) queryIncidents(query string, args ...any) ([]model.Incident, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []model.Incident
	for rows.Next() {
		var inc model.Incident
		err := rows.Scan(
			&inc.ID,
			&inc.Type,
			&inc.Keyword,
			&inc.Unit,
			&inc.Vehicles,
			&inc.Timestamp,
			&inc.TenantID,
			&inc.TenantName,
		)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return incidents, nil
}
