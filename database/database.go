// Package database persists preview lookup outcomes so a restart does not
// re-run lookups the process already paid for.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the preview store at dbPath.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Infof("Preview store initialized at %s", dbPath)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS preview_cache (
			key TEXT PRIMARY KEY,
			url TEXT,
			resolved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// SavePreview stores a lookup outcome. A nil url records a negative result
// ("looked up, none found") so it is not retried after a restart.
func (s *Store) SavePreview(key string, url *string) error {
	var value sql.NullString
	if url != nil {
		value = sql.NullString{String: *url, Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO preview_cache (key, url, resolved_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET url = excluded.url, resolved_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	return err
}

// LoadPreviews returns all persisted outcomes keyed by normalized title+artist.
func (s *Store) LoadPreviews() (map[string]*string, error) {
	rows, err := s.db.Query(`SELECT key, url FROM preview_cache`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]*string)
	for rows.Next() {
		var key string
		var url sql.NullString
		if err := rows.Scan(&key, &url); err != nil {
			return nil, err
		}
		if url.Valid {
			u := url.String
			entries[key] = &u
		} else {
			entries[key] = nil
		}
	}
	return entries, rows.Err()
}
