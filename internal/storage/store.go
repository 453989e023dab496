// Package storage provides the local persistent store backing the
// candidate state. The store is deliberately dumb: opaque bytes under a
// single well-known key, with no knowledge of what the bytes contain.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// StateKey is the well-known key the full candidate state is stored under.
const StateKey = "user_state"

// BlobStore reads and writes opaque byte blobs by key.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

const schema = `
CREATE TABLE IF NOT EXISTS app_state (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
);
`

// SQLiteStore is a BlobStore backed by a local SQLite file.
type SQLiteStore struct {
	db *sqlx.DB
}

// Open opens (creating if necessary) the SQLite file at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open(%s) > %w", path, err)
	}

	// modernc.org/sqlite allows a single writer; serialize access through
	// one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Exec(schema) > %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the blob stored under key, or ok=false when the key has
// never been written.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT value FROM app_state WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("db.GetContext(%s) > %w", key, err)
	}
	return value, true, nil
}

// Set writes the blob under key, replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("db.ExecContext(%s) > %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
