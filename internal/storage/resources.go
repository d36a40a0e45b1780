package storage

import (
	"database/sql"
	"time"
)

// SaveResource inserts a new wellness library document.
func (s *Store) SaveResource(r Resource) error {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO resources (id, title, content, source, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Content, r.Source, marshalTags(r.Tags), formatTime(createdAt),
	)
	return err
}

// GetResource returns a single library document by ID.
func (s *Store) GetResource(id string) (Resource, error) {
	row := s.db.QueryRow(`
		SELECT id, title, content, source, tags, created_at
		FROM resources WHERE id = ?`, id,
	)
	r, err := scanResource(row)
	if err == sql.ErrNoRows {
		return Resource{}, ErrNotFound
	}
	return r, err
}

// ListResources returns library documents sorted newest first.
func (s *Store) ListResources(limit int) ([]Resource, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, title, content, source, tags, created_at
		FROM resources ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// DeleteResource removes a library document.
func (s *Store) DeleteResource(id string) error {
	res, err := s.db.Exec(`DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanResource(row rowScanner) (Resource, error) {
	var r Resource
	var tags, createdAt string
	if err := row.Scan(&r.ID, &r.Title, &r.Content, &r.Source, &tags, &createdAt); err != nil {
		return Resource{}, err
	}
	r.Tags = unmarshalTags(tags)
	ts, err := parseStoredTime(createdAt)
	if err != nil {
		return Resource{}, err
	}
	r.CreatedAt = ts
	return r, nil
}
