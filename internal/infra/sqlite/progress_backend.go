// Package sqlite persists progress documents in a local SQLite file, the
// single-machine counterpart of the browser's key/value storage.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const createProgressDocuments = `
CREATE TABLE IF NOT EXISTS progress_documents (
    profile_id TEXT NOT NULL,
    key        TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (profile_id, key)
)`

// ProgressBackend stores progress documents in SQLite.
type ProgressBackend struct {
	db  *sql.DB
	now func() time.Time
}

// Open connects to the SQLite database at dsn, applies pragmas and creates the schema.
func Open(dsn string) (*ProgressBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(createProgressDocuments); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &ProgressBackend{db: db, now: time.Now}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DB returns the underlying *sql.DB for raw queries.
func (b *ProgressBackend) DB() *sql.DB {
	return b.db
}

func (b *ProgressBackend) Close() error {
	return b.db.Close()
}

func (b *ProgressBackend) Read(ctx context.Context, profileID, key string) ([]byte, bool, error) {
	var value string
	err := b.db.QueryRowContext(ctx,
		`SELECT value FROM progress_documents WHERE profile_id = ? AND key = ?`,
		profileID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(value), true, nil
}

func (b *ProgressBackend) Write(ctx context.Context, profileID, key string, value []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO progress_documents (profile_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (profile_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		profileID, key, string(value), b.now().UTC())
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Profiles lists every profile with stored progress.
func (b *ProgressBackend) Profiles(ctx context.Context) ([]string, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT DISTINCT profile_id FROM progress_documents ORDER BY profile_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
