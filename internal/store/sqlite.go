// Package store persists which listing URLs have already had their detail
// pages fetched, so repeat scrape runs skip them.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore tracks scraped listing URLs in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the seen_listings table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_listings (
		url        TEXT PRIMARY KEY,
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_listings table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// HasSeen returns true if the given listing URL has already been recorded.
func (s *SQLiteStore) HasSeen(url string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_listings WHERE url = ?", url).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", url, err)
	}
	return true, nil
}

// MarkSeen records a listing URL as seen. If it already exists the call is a
// no-op.
func (s *SQLiteStore) MarkSeen(url string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO seen_listings (url) VALUES (?)", url)
	if err != nil {
		return fmt.Errorf("marking listing %s as seen: %w", url, err)
	}
	return nil
}

// Cleanup deletes seen-listing entries older than the given duration, so
// reposted jobs eventually get re-fetched.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	_, err := s.db.Exec("DELETE FROM seen_listings WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up seen listings older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
