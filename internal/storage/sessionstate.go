package storage

import (
	"database/sql"
	"fmt"
)

// SessionStateRepository provides string key-value persistence for the
// session manager. The session package owns this namespace exclusively.
type SessionStateRepository struct {
	db *DB
}

// NewSessionStateRepository creates a new session state repository
func NewSessionStateRepository(db *DB) *SessionStateRepository {
	return &SessionStateRepository{db: db}
}

// Get retrieves a value by key. The second return is false when the key is absent.
func (r *SessionStateRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM session_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session state: %w", err)
	}
	return value, true, nil
}

// SetAll upserts every key-value pair in a single transaction, so that
// readers never observe a partially written group.
func (r *SessionStateRepository) SetAll(values map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		query := `
			INSERT INTO session_state (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`
		if _, err := tx.Exec(query, key, value); err != nil {
			return fmt.Errorf("failed to write session state: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteAll removes every listed key in a single transaction. Deleting an
// absent key is a no-op.
func (r *SessionStateRepository) DeleteAll(keys ...string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range keys {
		if _, err := tx.Exec("DELETE FROM session_state WHERE key = ?", key); err != nil {
			return fmt.Errorf("failed to clear session state: %w", err)
		}
	}

	return tx.Commit()
}
