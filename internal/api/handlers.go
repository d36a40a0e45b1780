// Package api exposes the wellness features over HTTP. All endpoints speak
// JSON; sessions are identified by the X-Session-ID header and carry no
// account state.
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/youthmind/youthmind/internal/community"
	"github.com/youthmind/youthmind/internal/flows"
	"github.com/youthmind/youthmind/internal/library"
	"github.com/youthmind/youthmind/internal/safety"
	"github.com/youthmind/youthmind/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB
const maxUploadBodySize = 10 << 20 // 10MB for audio, images, and PDFs

const sessionHeader = "X-Session-ID"

// Deps holds the services the HTTP layer dispatches to.
type Deps struct {
	Flows   *flows.Service
	Board   *community.Board
	Library *library.Library
	Store   *storage.Store
}

// NewHandler returns the app's HTTP API.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/mood", handleMood(deps))
		r.Post("/chat", handleChat(deps))
		r.Post("/voice", handleVoice(deps))
		r.Post("/facial-mood", handleFacialMood(deps))
		r.Post("/roadmap", handleRoadmap(deps))
		r.Post("/games/suggestion", handleGameSuggestion(deps))
		r.Post("/recommendations", handleRecommendation(deps))
		r.Post("/music", handleMusic(deps))
		r.Post("/journal", handleJournalPrompt(deps))
		r.Post("/art", handleArt(deps))
		r.Post("/moderate", handleModerate(deps))
		r.Get("/helplines", handleHelplines)

		r.Get("/threads", handleListThreads(deps))
		r.Post("/threads", handleCreateThread(deps))
		r.Post("/threads/{id}/like", handleLikeThread(deps))
		r.Post("/threads/{id}/reply", handleReplyThread(deps))

		r.Get("/session/mood", handleGetSessionMood(deps))
		r.Put("/session/mood", handleSetSessionMood(deps))
		r.Get("/moods", handleListMoods(deps))
		r.Post("/moods", handleLogMood(deps))

		r.Get("/resources", handleListResources(deps))
		r.Post("/resources", handleAddResource(deps))
		r.Get("/resources/{id}", handleGetResource(deps))
		r.Delete("/resources/{id}", handleDeleteResource(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// decodeJSON enforces the body size limit and decodes into dst. On failure
// it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeCrisis replaces the normal flow result with the static helpline
// payload. This is a successful response, not an error: the client renders
// the support card instead of AI output.
func writeCrisis(w http.ResponseWriter) {
	writeJSON(w, map[string]any{
		"crisis":    true,
		"resources": safety.Resources(),
	})
}

// flowError maps a flow failure onto the wire. Crisis short-circuits are
// 200s with the helpline payload; everything else is an upstream failure.
func flowError(w http.ResponseWriter, err error) {
	if errors.Is(err, safety.ErrCrisis) {
		writeCrisis(w)
		return
	}
	httpError(w, http.StatusBadGateway, "api_error", "flow failed: %v", err)
}

// --- AI flows ---

func handleMood(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in flows.MoodInput
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		out, err := deps.Flows.DetectMood(r.Context(), in)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in flows.ChatInput
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		out, err := deps.Flows.CounselorChat(r.Context(), in)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleVoice(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in flows.VoiceInput
		if !decodeJSON(w, r, &in, maxUploadBodySize) {
			return
		}
		out, err := deps.Flows.VoiceTurn(r.Context(), in)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleFacialMood(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ImageDataURI string `json:"imageDataUri"`
		}
		if !decodeJSON(w, r, &in, maxUploadBodySize) {
			return
		}
		if in.ImageDataURI == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "imageDataUri is required")
			return
		}
		out, err := deps.Flows.DetectMoodFromImage(r.Context(), in.ImageDataURI)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleRoadmap(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in flows.RoadmapInput
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		out, err := deps.Flows.GenerateRoadmap(r.Context(), in)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleGameSuggestion(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in flows.GameInput
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		out, err := deps.Flows.SuggestGame(r.Context(), in)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleRecommendation(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in flows.RecommendInput
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		out, err := deps.Flows.Recommend(r.Context(), in)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleMusic(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in flows.RecommendInput
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		out, err := deps.Flows.RecommendMusic(r.Context(), in)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleJournalPrompt(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in flows.RecommendInput
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		out, err := deps.Flows.JournalingPrompt(r.Context(), in)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleArt(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in flows.ArtInput
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		out, err := deps.Flows.MoodArt(r.Context(), in)
		if err != nil {
			flowError(w, err)
			return
		}
		writeJSON(w, out)
	}
}

func handleModerate(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Text string `json:"text"`
		}
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		out, err := deps.Flows.ModerateText(r.Context(), in.Text)
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "moderation failed: %v", err)
			return
		}
		writeJSON(w, out)
	}
}

func handleHelplines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, safety.Resources())
}

// --- support board ---

func handleListThreads(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 50, 200)
		threads, err := deps.Board.FetchThreads(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list threads: %v", err)
			return
		}
		writeJSON(w, threads)
	}
}

func handleCreateThread(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in community.CreateThreadInput
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}

		thread, err := deps.Board.CreateThread(r.Context(), in)
		var modErr *community.ModerationError
		if errors.As(err, &modErr) {
			httpError(w, http.StatusUnprocessableEntity, "moderation_rejected", "%s was rejected: %s", modErr.Field, modErr.Reason)
			return
		}
		if err != nil {
			httpError(w, http.StatusBadGateway, "api_error", "failed to create thread: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(thread)
	}
}

func handleLikeThread(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := deps.Board.LikeThread(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "thread not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to like thread: %v", err)
			return
		}
		writeJSON(w, map[string]int{"likes": count})
	}
}

func handleReplyThread(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := deps.Board.ReplyToThread(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "thread not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to record reply: %v", err)
			return
		}
		writeJSON(w, map[string]int{"replies": count})
	}
}

// --- session state and mood journal ---

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%s header is required", sessionHeader)
		return "", false
	}
	return id, true
}

func handleGetSessionMood(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}
		mood, err := deps.Store.GetSessionValue(id, "mood")
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, map[string]string{"mood": ""})
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to read session mood: %v", err)
			return
		}
		writeJSON(w, map[string]string{"mood": mood})
	}
}

func handleSetSessionMood(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}
		var in struct {
			Mood string `json:"mood"`
		}
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		if in.Mood == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "mood is required")
			return
		}
		if err := deps.Store.SetSessionValue(id, "mood", in.Mood); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to store session mood: %v", err)
			return
		}
		writeJSON(w, map[string]string{"mood": in.Mood})
	}
}

func handleListMoods(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}
		limit := parseIntParam(r, "limit", 50, 200)
		entries, err := deps.Store.ListMoodEntries(id, limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list moods: %v", err)
			return
		}
		if entries == nil {
			entries = []storage.MoodEntry{}
		}
		writeJSON(w, entries)
	}
}

func handleLogMood(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}
		var in struct {
			Mood string `json:"mood"`
			Note string `json:"note"`
		}
		if !decodeJSON(w, r, &in, maxRequestBodySize) {
			return
		}
		if in.Mood == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "mood is required")
			return
		}

		entry := storage.MoodEntry{
			ID:        uuid.New().String(),
			SessionID: id,
			Mood:      in.Mood,
			Note:      in.Note,
			CreatedAt: time.Now().UTC(),
		}
		if err := deps.Store.SaveMoodEntry(entry); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save mood entry: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entry)
	}
}

// --- wellness library ---

type addResourceRequest struct {
	Title   string   `json:"title"`
	Type    string   `json:"type"` // "text" (default) or "pdf"
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func handleAddResource(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addResourceRequest
		if !decodeJSON(w, r, &req, maxUploadBodySize) {
			return
		}

		var (
			res storage.Resource
			err error
		)
		switch req.Type {
		case "pdf":
			data, decErr := decodeBase64(req.Content)
			if decErr != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "content must be base64 for pdf uploads: %v", decErr)
				return
			}
			res, err = deps.Library.AddPDF(req.Title, data, req.Tags)
		case "", "text":
			res, err = deps.Library.AddText(req.Title, req.Content, req.Tags)
		default:
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unsupported resource type %q", req.Type)
			return
		}
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "failed to ingest resource: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(res)
	}
}

func handleListResources(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 50, 200)
		resources, err := deps.Library.List(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list resources: %v", err)
			return
		}
		writeJSON(w, resources)
	}
}

func handleGetResource(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := deps.Library.Get(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "resource not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get resource: %v", err)
			return
		}
		writeJSON(w, res)
	}
}

func handleDeleteResource(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := deps.Library.Remove(chi.URLParam(r, "id"))
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "resource not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete resource: %v", err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

func decodeBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("content is empty")
	}
	return base64.StdEncoding.DecodeString(s)
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
