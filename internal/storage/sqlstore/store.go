// Package sqlstore implements storage.Store on SQLite.
//
// It uses the pure-Go modernc.org/sqlite driver so the store (and its tests)
// run without cgo. AUTOINCREMENT keys give the same never-reuse ID semantics
// as the flat-file store's high-water mark. Unlike the flat-file store,
// cross-collection cascades here run inside a single transaction; callers
// observe identical behavior either way.
package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the SQLite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// New opens (or initializes) the database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serializes writers and sidesteps SQLITE_BUSY;
	// contention is not a concern for a single-user store.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// initSchema creates the tables. Folder, tag and category references from
// documents carry no FOREIGN KEY constraint: like the flat-file store, a
// dangling reference is recorded as written and resolved as absent at read
// time. Only the document-side cascades are enforced.
func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys=ON;`,
		`CREATE TABLE IF NOT EXISTS folders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			parent_id INTEGER REFERENCES folders(id) ON DELETE CASCADE,
			color TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_folders_parent ON folders(parent_id);`,
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			folder_id INTEGER,
			is_favorite INTEGER NOT NULL DEFAULT 0,
			is_pinned INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			last_opened_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_folder ON documents(folder_id);`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS document_tags (
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL,
			PRIMARY KEY (document_id, tag_id)
		);`,
		`CREATE TABLE IF NOT EXISTS document_categories (
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			category_id INTEGER NOT NULL,
			PRIMARY KEY (document_id, category_id)
		);`,
		`CREATE TABLE IF NOT EXISTS recent_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			accessed_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// fmtTime and parseTime convert between time.Time and the RFC3339 UTC TEXT
// column representation.
func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func fmtNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func nullID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
