// Package api provides HTTP API handlers for the game server.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/sarpa/internal/store"
)

// ScoresHandler handles HTTP requests for score resources.
type ScoresHandler struct {
	store *store.Store
}

// NewScoresHandler creates a new ScoresHandler with the given store.
func NewScoresHandler(s *store.Store) *ScoresHandler {
	return &ScoresHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests
// to the appropriate method.
func (h *ScoresHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/scores, /api/scores/best or /api/scores/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/scores")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if path == "best" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.best(w, r)
		return
	}

	id := path
	switch r.Method {
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createScoreRequest struct {
	Score      int   `json:"score"`
	Length     int   `json:"length"`
	DurationMs int64 `json:"duration_ms"`
}

type scoreResponse struct {
	ID         string `json:"id"`
	Score      int    `json:"score"`
	Length     int    `json:"length"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

type listScoresResponse struct {
	Scores []scoreResponse `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Score to a scoreResponse.
func toResponse(sc *store.Score) scoreResponse {
	return scoreResponse{
		ID:         sc.ID,
		Score:      sc.Score,
		Length:     sc.Length,
		DurationMs: sc.Duration.Milliseconds(),
		CreatedAt:  sc.CreatedAt.Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/scores?limit=N.
func (h *ScoresHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	scores, err := h.store.Scores().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scores")
		return
	}

	resp := listScoresResponse{Scores: make([]scoreResponse, 0, len(scores))}
	for _, sc := range scores {
		resp.Scores = append(resp.Scores, toResponse(sc))
	}

	writeJSON(w, http.StatusOK, resp)
}

// create handles POST /api/scores.
func (h *ScoresHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Score < 0 || req.Length < 1 {
		writeError(w, http.StatusBadRequest, "score must be >= 0 and length >= 1")
		return
	}

	sc := &store.Score{
		ID:       uuid.New().String(),
		Score:    req.Score,
		Length:   req.Length,
		Duration: time.Duration(req.DurationMs) * time.Millisecond,
	}

	if err := h.store.Scores().Create(sc); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create score")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(sc))
}

// best handles GET /api/scores/best.
func (h *ScoresHandler) best(w http.ResponseWriter, r *http.Request) {
	sc, err := h.store.Scores().Best()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no scores recorded")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch best score")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sc))
}

// delete handles DELETE /api/scores/{id}.
func (h *ScoresHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Scores().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "score not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete score")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
