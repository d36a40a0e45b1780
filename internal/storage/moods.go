package storage

import "time"

// SaveMoodEntry inserts a mood journal record for a session.
func (s *Store) SaveMoodEntry(e MoodEntry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO mood_entries (id, session_id, mood, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Mood, e.Note, formatTime(createdAt),
	)
	return err
}

// ListMoodEntries returns a session's mood journal, newest first.
func (s *Store) ListMoodEntries(sessionID string, limit int) ([]MoodEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, session_id, mood, note, created_at
		FROM mood_entries WHERE session_id = ? ORDER BY created_at DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MoodEntry
	for rows.Next() {
		var e MoodEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Mood, &e.Note, &createdAt); err != nil {
			return nil, err
		}
		ts, err := parseStoredTime(createdAt)
		if err != nil {
			return nil, err
		}
		e.CreatedAt = ts
		results = append(results, e)
	}
	return results, rows.Err()
}
