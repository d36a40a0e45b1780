// Package library manages the wellness resource collection: curated articles
// and exercises served alongside the AI features. Documents arrive as plain
// text or PDF uploads; PDFs are reduced to plain text at ingestion time.
package library

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/youthmind/youthmind/internal/storage"
)

// ResourceStore is the subset of storage the library needs.
type ResourceStore interface {
	SaveResource(r storage.Resource) error
	GetResource(id string) (storage.Resource, error)
	ListResources(limit int) ([]storage.Resource, error)
	DeleteResource(id string) error
}

// Library ingests and serves wellness documents.
type Library struct {
	store ResourceStore
}

// New creates a library backed by the given store.
func New(store ResourceStore) *Library {
	return &Library{store: store}
}

// AddText ingests a plain-text document.
func (l *Library) AddText(title, content string, tags []string) (storage.Resource, error) {
	return l.add(title, collapseWhitespace(content), "text", tags)
}

// AddPDF extracts the text of a PDF document and ingests it. The raw bytes
// are not retained.
func (l *Library) AddPDF(title string, data []byte, tags []string) (storage.Resource, error) {
	text, err := ExtractPDFText(data)
	if err != nil {
		return storage.Resource{}, err
	}
	return l.add(title, text, "pdf", tags)
}

func (l *Library) add(title, content, source string, tags []string) (storage.Resource, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return storage.Resource{}, fmt.Errorf("title is required")
	}
	if content == "" {
		return storage.Resource{}, fmt.Errorf("document has no text content")
	}

	r := storage.Resource{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Source:    source,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.store.SaveResource(r); err != nil {
		return storage.Resource{}, fmt.Errorf("saving resource: %w", err)
	}
	return r, nil
}

// Get returns a single document by ID.
func (l *Library) Get(id string) (storage.Resource, error) {
	return l.store.GetResource(id)
}

// List returns documents newest first.
func (l *Library) List(limit int) ([]storage.Resource, error) {
	resources, err := l.store.ListResources(limit)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	if resources == nil {
		resources = []storage.Resource{}
	}
	return resources, nil
}

// Remove deletes a document.
func (l *Library) Remove(id string) error {
	return l.store.DeleteResource(id)
}
