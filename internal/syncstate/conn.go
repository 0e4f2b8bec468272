// Package syncstate persists the validators of downloaded rule files so that
// later downloads can be made conditional.
package syncstate

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the SQLite database at path with WAL journaling and
// applies the schema.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS RuleFiles (
	RuleType     TEXT PRIMARY KEY,
	ETag         TEXT NOT NULL DEFAULT '',
	LastModified TEXT,
	Filename     TEXT NOT NULL DEFAULT '',
	Path         TEXT NOT NULL DEFAULT '',
	Size         INTEGER NOT NULL DEFAULT 0,
	UpdatedTime  TEXT NOT NULL
);`

// EnsureSchema creates the tables if they do not exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("syncstate: apply schema: %w", err)
	}
	return nil
}
