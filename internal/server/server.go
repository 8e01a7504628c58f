// Package server provides the HTTP companion server for the game:
// score history, a live MJPEG stream and a WebSocket state feed.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/sarpa/internal/app"
	"github.com/ayusman/sarpa/internal/server/api"
	"github.com/ayusman/sarpa/internal/store"
)

// StateSource supplies game snapshots for the state feed.
// *app.Session implements it.
type StateSource interface {
	Snapshot() app.Snapshot
}

// FrameSource supplies the latest encoded frame for the MJPEG stream.
// *app.Session implements it.
type FrameSource interface {
	LatestFrame() ([]byte, bool)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	State     StateSource
	Frames    FrameSource
}

// Server represents the HTTP server for the game.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		scoresHandler := api.NewScoresHandler(s.config.Store)
		s.mux.Handle("/api/scores", scoresHandler)
		s.mux.Handle("/api/scores/", scoresHandler)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.State != nil {
		s.mux.Handle("/api/state", NewStateHandler(s.config.State))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
