// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity owns the anonymous user identifier and the local session shadow.

Both live in a small durable key-value store on the local machine. Nothing here
talks to the server.
*/
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store is durable local key-value storage.
type Store interface {
	Get(context context.Context, key string) (string, bool, error)
	Set(context context.Context, key, value string) error
	Delete(context context.Context, key string) error
}

const createKV = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteStore keeps key-value pairs in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. ":memory:" is accepted.
func OpenSQLite(context context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("identity: create state directory: %w", err)
		}
		dsn += "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("identity: open %s: %w", path, err)
	}

	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context, createKV); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("identity: create kv table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the value under key and whether it was present.
func (store *SQLiteStore) Get(context context.Context, key string) (string, bool, error) {
	var value string
	err := store.db.QueryRowContext(context, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("identity: get %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes value under key, replacing any previous value.
func (store *SQLiteStore) Set(context context.Context, key, value string) error {
	_, err := store.db.ExecContext(context,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("identity: set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (store *SQLiteStore) Delete(context context.Context, key string) error {
	if _, err := store.db.ExecContext(context, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("identity: delete %q: %w", key, err)
	}
	return nil
}

// Close releases the database.
func (store *SQLiteStore) Close() error {
	return store.db.Close()
}
