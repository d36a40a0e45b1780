// Package community implements the anonymous peer-support board. Every post
// passes through AI moderation before it is stored; rejected posts are never
// written.
package community

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/youthmind/youthmind/internal/flows"
	"github.com/youthmind/youthmind/internal/storage"
)

// anonymousAuthor is attributed to every post. The board carries no accounts.
const anonymousAuthor = "AnonymousUser"

// Moderator screens user text before it reaches the board.
type Moderator interface {
	ModerateText(ctx context.Context, text string) (flows.Moderation, error)
}

// ThreadStore is the subset of storage the board needs.
type ThreadStore interface {
	SaveThread(t storage.Thread) error
	ListThreads(limit int) ([]storage.Thread, error)
	GetThread(id string) (storage.Thread, error)
	IncrementLikes(id string) (int, error)
	IncrementReplies(id string) (int, error)
}

// ModerationError reports which field was rejected and the moderator's reason.
type ModerationError struct {
	Field  string
	Reason string
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("%s rejected by moderation: %s", e.Field, e.Reason)
}

// Board mediates between the moderation flow and thread storage.
type Board struct {
	moderator Moderator
	store     ThreadStore
	logger    *slog.Logger
}

// NewBoard creates a support board backed by the given moderator and store.
func NewBoard(moderator Moderator, store ThreadStore, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{moderator: moderator, store: store, logger: logger}
}

// CreateThreadInput is a candidate post before moderation.
type CreateThreadInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// CreateThread moderates the title, then the content, and persists the post
// only if both pass. A rejection returns *ModerationError and leaves the
// store untouched.
func (b *Board) CreateThread(ctx context.Context, in CreateThreadInput) (storage.Thread, error) {
	title := strings.TrimSpace(StripHTML(in.Title))
	content := strings.TrimSpace(StripHTML(in.Content))
	if title == "" || content == "" {
		return storage.Thread{}, fmt.Errorf("title and content are required")
	}

	for _, field := range []struct {
		name string
		text string
	}{
		{"title", title},
		{"content", content},
	} {
		verdict, err := b.moderator.ModerateText(ctx, field.text)
		if err != nil {
			return storage.Thread{}, fmt.Errorf("moderating %s: %w", field.name, err)
		}
		if !verdict.IsSafe {
			b.logger.Info("post rejected by moderation", "field", field.name, "reason", verdict.Reason)
			return storage.Thread{}, &ModerationError{Field: field.name, Reason: verdict.Reason}
		}
	}

	t := storage.Thread{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Author:    anonymousAuthor,
		Tags:      in.Tags,
		CreatedAt: time.Now().UTC(),
	}
	if err := b.store.SaveThread(t); err != nil {
		return storage.Thread{}, fmt.Errorf("saving thread: %w", err)
	}

	b.logger.Info("thread created", "id", t.ID)
	return t, nil
}

// FetchThreads returns the board's threads, newest first.
func (b *Board) FetchThreads(limit int) ([]storage.Thread, error) {
	threads, err := b.store.ListThreads(limit)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}
	if threads == nil {
		threads = []storage.Thread{}
	}
	return threads, nil
}

// LikeThread increments a thread's like counter and returns the new count.
func (b *Board) LikeThread(id string) (int, error) {
	return b.store.IncrementLikes(id)
}

// ReplyToThread increments a thread's reply counter and returns the new count.
func (b *Board) ReplyToThread(id string) (int, error) {
	return b.store.IncrementReplies(id)
}
