package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// Get returns the value stored under key, or "" when the key is absent.
func (db *DB) Get(key string) (string, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (db *DB) Set(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (db *DB) Delete(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Stats contains aggregate database statistics.
type Stats struct {
	Keys        int
	LastUpdated string
}

// GetStats returns the number of stored keys and the most recent write time.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	var last sql.NullString
	err := db.conn.QueryRow(`SELECT COUNT(*), MAX(updated_at) FROM kv_store`).Scan(&s.Keys, &last)
	if err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}
	s.LastUpdated = last.String
	return s, nil
}
