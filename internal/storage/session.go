package storage

import (
	"database/sql"
	"time"
)

// SetSessionValue upserts a key/value pair scoped to a session.
func (s *Store) SetSessionValue(sessionID, key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO session_state (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		sessionID, key, value, formatTime(time.Now()),
	)
	return err
}

// GetSessionValue returns the value stored for a session key.
func (s *Store) GetSessionValue(sessionID, key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM session_state WHERE session_id = ? AND key = ?", sessionID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}
