package community

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/youthmind/youthmind/internal/flows"
	"github.com/youthmind/youthmind/internal/storage"
)

// scriptedModerator returns verdicts in order and records the texts it saw.
type scriptedModerator struct {
	verdicts []flows.Moderation
	err      error
	texts    []string
}

func (m *scriptedModerator) ModerateText(_ context.Context, text string) (flows.Moderation, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return flows.Moderation{}, m.err
	}
	if len(m.verdicts) == 0 {
		return flows.Moderation{IsSafe: true}, nil
	}
	v := m.verdicts[0]
	m.verdicts = m.verdicts[1:]
	return v, nil
}

// memStore is an in-memory ThreadStore that counts writes.
type memStore struct {
	threads []storage.Thread
	saves   int
}

func (s *memStore) SaveThread(t storage.Thread) error {
	s.saves++
	s.threads = append(s.threads, t)
	return nil
}

func (s *memStore) ListThreads(limit int) ([]storage.Thread, error) {
	out := make([]storage.Thread, len(s.threads))
	copy(out, s.threads)
	// Newest first, mirroring the SQL ordering.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) GetThread(id string) (storage.Thread, error) {
	for _, t := range s.threads {
		if t.ID == id {
			return t, nil
		}
	}
	return storage.Thread{}, storage.ErrNotFound
}

func (s *memStore) IncrementLikes(id string) (int, error) {
	for i := range s.threads {
		if s.threads[i].ID == id {
			s.threads[i].Likes++
			return s.threads[i].Likes, nil
		}
	}
	return 0, storage.ErrNotFound
}

func (s *memStore) IncrementReplies(id string) (int, error) {
	for i := range s.threads {
		if s.threads[i].ID == id {
			s.threads[i].Replies++
			return s.threads[i].Replies, nil
		}
	}
	return 0, storage.ErrNotFound
}

func TestCreateThread_BothFieldsPass(t *testing.T) {
	mod := &scriptedModerator{}
	store := &memStore{}
	board := NewBoard(mod, store, nil)

	got, err := board.CreateThread(context.Background(), CreateThreadInput{
		Title:   "Looking for study tips",
		Content: "How do you all manage exam stress?",
		Tags:    []string{"school"},
	})
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}

	if len(mod.texts) != 2 {
		t.Fatalf("moderator saw %d texts, want 2", len(mod.texts))
	}
	if mod.texts[0] != "Looking for study tips" {
		t.Errorf("first moderated text = %q, want the title", mod.texts[0])
	}
	if got.ID == "" {
		t.Error("thread ID not assigned")
	}
	if got.Author != "AnonymousUser" {
		t.Errorf("Author = %q, want AnonymousUser", got.Author)
	}
	if got.Likes != 0 || got.Replies != 0 {
		t.Errorf("counters = (%d, %d), want (0, 0)", got.Likes, got.Replies)
	}
	if store.saves != 1 {
		t.Errorf("store saw %d writes, want 1", store.saves)
	}
}

func TestCreateThread_TitleRejected(t *testing.T) {
	mod := &scriptedModerator{verdicts: []flows.Moderation{{IsSafe: false, Reason: "harassment"}}}
	store := &memStore{}
	board := NewBoard(mod, store, nil)

	_, err := board.CreateThread(context.Background(), CreateThreadInput{
		Title:   "bad title",
		Content: "fine content",
	})

	var modErr *ModerationError
	if !errors.As(err, &modErr) {
		t.Fatalf("error = %v, want *ModerationError", err)
	}
	if modErr.Field != "title" {
		t.Errorf("Field = %q, want title", modErr.Field)
	}
	if modErr.Reason != "harassment" {
		t.Errorf("Reason = %q, want harassment", modErr.Reason)
	}

	// The title failed, so the content must never reach the moderator.
	if len(mod.texts) != 1 {
		t.Errorf("moderator saw %d texts, want 1", len(mod.texts))
	}
	if store.saves != 0 {
		t.Errorf("store saw %d writes, want 0", store.saves)
	}
}

func TestCreateThread_ContentRejected(t *testing.T) {
	mod := &scriptedModerator{verdicts: []flows.Moderation{
		{IsSafe: true},
		{IsSafe: false, Reason: "contains personal information"},
	}}
	store := &memStore{}
	board := NewBoard(mod, store, nil)

	_, err := board.CreateThread(context.Background(), CreateThreadInput{
		Title:   "fine title",
		Content: "bad content",
	})

	var modErr *ModerationError
	if !errors.As(err, &modErr) {
		t.Fatalf("error = %v, want *ModerationError", err)
	}
	if modErr.Field != "content" {
		t.Errorf("Field = %q, want content", modErr.Field)
	}
	if store.saves != 0 {
		t.Errorf("store saw %d writes, want 0", store.saves)
	}
}

func TestCreateThread_ModeratorError(t *testing.T) {
	mod := &scriptedModerator{err: fmt.Errorf("upstream unavailable")}
	store := &memStore{}
	board := NewBoard(mod, store, nil)

	_, err := board.CreateThread(context.Background(), CreateThreadInput{
		Title:   "title",
		Content: "content",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var modErr *ModerationError
	if errors.As(err, &modErr) {
		t.Error("transport failure should not look like a moderation verdict")
	}
	if store.saves != 0 {
		t.Errorf("store saw %d writes, want 0", store.saves)
	}
}

func TestCreateThread_EmptyAfterStripping(t *testing.T) {
	mod := &scriptedModerator{}
	board := NewBoard(mod, &memStore{}, nil)

	_, err := board.CreateThread(context.Background(), CreateThreadInput{
		Title:   "<b></b>",
		Content: "real content",
	})
	if err == nil {
		t.Fatal("expected error for markup-only title")
	}
	if len(mod.texts) != 0 {
		t.Errorf("moderator saw %d texts, want 0", len(mod.texts))
	}
}

func TestCreateThread_StripsMarkup(t *testing.T) {
	mod := &scriptedModerator{}
	store := &memStore{}
	board := NewBoard(mod, store, nil)

	got, err := board.CreateThread(context.Background(), CreateThreadInput{
		Title:   "Hello <script>alert(1)</script>world",
		Content: "<p>Just checking in</p>",
	})
	if err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	if got.Title != "Hello alert(1)world" {
		t.Errorf("Title = %q, markup not stripped", got.Title)
	}
	if got.Content != "Just checking in" {
		t.Errorf("Content = %q, markup not stripped", got.Content)
	}
}

func TestFetchThreads_NewestFirstAndNonNil(t *testing.T) {
	store := &memStore{}
	board := NewBoard(&scriptedModerator{}, store, nil)

	got, err := board.FetchThreads(10)
	if err != nil {
		t.Fatalf("FetchThreads: %v", err)
	}
	if got == nil {
		t.Fatal("empty board must return a non-nil slice")
	}

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	for j := 0; j < 3; j++ {
		store.SaveThread(storage.Thread{ID: fmt.Sprintf("th-%d", j), CreatedAt: base.Add(time.Duration(j) * time.Hour)})
	}

	got, err = board.FetchThreads(10)
	if err != nil {
		t.Fatalf("FetchThreads: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d threads, want 3", len(got))
	}
	if got[0].ID != "th-2" {
		t.Errorf("first thread = %q, want th-2", got[0].ID)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> move", "bold move"},
		{"a < b and c > d", "a < b and c > d"},
		{"<img src=x onerror=alert(1)>", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := StripHTML(tc.in); got != tc.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
