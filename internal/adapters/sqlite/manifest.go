package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"driftcheck/internal/ports"
)

const schemaVersion = "1"

// ManifestFile is the database filename created in the destination
// directory.
const ManifestFile = ".driftcheck-manifest.db"

// Manifest implements ports.Manifest using SQLite. It records every ascii
// spectrum the matrix decoder materializes, so cleanup removes exactly
// those files and nothing else in the destination directory.
type Manifest struct {
	db *sql.DB
}

// Ensure Manifest implements ports.Manifest
var _ ports.Manifest = (*Manifest)(nil)

// Open opens (or creates) the manifest database inside dir.
func Open(dir string) (*Manifest, error) {
	db, err := sql.Open("sqlite3", filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest database: %w", err)
	}

	// Pragmas + schema in a single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS materialized (
			path TEXT PRIMARY KEY,
			run INTEGER NOT NULL,
			detector INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', '` + schemaVersion + `');
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup manifest database: %w", err)
	}

	return &Manifest{db: db}, nil
}

// Record registers one materialized file. Re-recording the same path
// overwrites the previous entry.
func (m *Manifest) Record(path string, run, detector int) error {
	_, err := m.db.Exec(`
		INSERT OR REPLACE INTO materialized (path, run, detector, created_at)
		VALUES (?, ?, ?, ?)
	`, path, run, detector, time.Now().Unix())
	return err
}

// List returns all recorded file paths, ordered by run then detector.
func (m *Manifest) List() ([]string, error) {
	rows, err := m.db.Query(`SELECT path FROM materialized ORDER BY run, detector`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Clear forgets all recorded files. It does not touch the filesystem.
func (m *Manifest) Clear() error {
	_, err := m.db.Exec(`DELETE FROM materialized`)
	return err
}

// Close closes the database connection.
func (m *Manifest) Close() error {
	return m.db.Close()
}
