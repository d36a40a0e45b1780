package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Thread is one peer-support board post. Counters only ever increment;
// threads are never edited or deleted.
type Thread struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     int       `json:"likes"`
	Replies   int       `json:"replies"`
}

// Resource is one wellness library document, either pasted as plain text or
// extracted from an uploaded PDF.
type Resource struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Source    string    `json:"source"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

// MoodEntry is one mood journal record scoped to a session.
type MoodEntry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	Mood      string    `json:"mood"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
