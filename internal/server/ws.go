package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateHandler broadcasts live game state via WebSocket.
type StateHandler struct {
	source  StateSource
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewStateHandler creates a StateHandler over the given state source
// and starts its broadcast loop.
func NewStateHandler(source StateSource) *StateHandler {
	h := &StateHandler{
		source:  source,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends game snapshots to all connected clients.
func (h *StateHandler) broadcast() {
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 Hz
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		snapshot := h.source.Snapshot()
		msg, err := json.Marshal(map[string]any{
			"game":      snapshot,
			"timestamp": time.Now().UnixMilli(),
		})
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
