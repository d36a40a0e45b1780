package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveThread inserts a new support thread.
func (s *Store) SaveThread(t Thread) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO threads (id, title, content, author, tags, created_at, likes, replies)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Content, t.Author, marshalTags(t.Tags),
		formatTime(createdAt), t.Likes, t.Replies,
	)
	return err
}

// GetThread returns a single thread by ID.
func (s *Store) GetThread(id string) (Thread, error) {
	row := s.db.QueryRow(`
		SELECT id, title, content, author, tags, created_at, likes, replies
		FROM threads WHERE id = ?`, id,
	)
	t, err := scanThread(row)
	if err == sql.ErrNoRows {
		return Thread{}, ErrNotFound
	}
	return t, err
}

// ListThreads returns threads sorted newest first.
func (s *Store) ListThreads(limit int) ([]Thread, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, title, content, author, tags, created_at, likes, replies
		FROM threads ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// IncrementLikes adds one to the thread's like counter.
func (s *Store) IncrementLikes(id string) (int, error) {
	return s.incrementCounter(id, "likes")
}

// IncrementReplies adds one to the thread's reply counter.
func (s *Store) IncrementReplies(id string) (int, error) {
	return s.incrementCounter(id, "replies")
}

func (s *Store) incrementCounter(id, column string) (int, error) {
	res, err := s.db.Exec(`UPDATE threads SET `+column+` = `+column+` + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	var count int
	if err := s.db.QueryRow(`SELECT `+column+` FROM threads WHERE id = ?`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("reading %s counter: %w", column, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThread(row rowScanner) (Thread, error) {
	var t Thread
	var tags, createdAt string
	if err := row.Scan(&t.ID, &t.Title, &t.Content, &t.Author, &tags, &createdAt, &t.Likes, &t.Replies); err != nil {
		return Thread{}, err
	}
	t.Tags = unmarshalTags(tags)
	ts, err := parseStoredTime(createdAt)
	if err != nil {
		return Thread{}, err
	}
	t.CreatedAt = ts
	return t, nil
}
