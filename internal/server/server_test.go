package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/sarpa/internal/app"
	"github.com/ayusman/sarpa/internal/game"
	"github.com/ayusman/sarpa/internal/store"
)

// fakeSession implements StateSource and FrameSource for tests.
type fakeSession struct {
	snapshot app.Snapshot
	frame    []byte
}

func (f *fakeSession) Snapshot() app.Snapshot { return f.snapshot }

func (f *fakeSession) LatestFrame() ([]byte, bool) {
	if len(f.frame) == 0 {
		return nil, false
	}
	return f.frame, true
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
	}
	json.NewDecoder(resp.Body).Decode(&health)
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
}

func TestAPI_ScoreWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	s, _ := store.New(filepath.Join(tmpDir, "test.db"))
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Record a score
	createBody := `{"score": 7, "length": 8, "duration_ms": 42000}`
	resp, err := client.Post(ts.URL+"/api/scores", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/scores error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID    string `json:"id"`
		Score int    `json:"score"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Score != 7 {
		t.Errorf("created score = %d, want 7", created.Score)
	}
	if created.ID == "" {
		t.Error("created score has no id")
	}

	// 2. List scores
	resp, _ = client.Get(ts.URL + "/api/scores")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/scores status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Scores []struct {
			ID    string `json:"id"`
			Score int    `json:"score"`
		} `json:"scores"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Scores) != 1 {
		t.Fatalf("len(scores) = %d, want 1", len(listed.Scores))
	}

	// 3. Best score
	resp, _ = client.Get(ts.URL + "/api/scores/best")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/scores/best status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 4. Delete score
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/scores/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 5. Best is gone
	resp, _ = client.Get(ts.URL + "/api/scores/best")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET /api/scores/best after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_ScoreValidation(t *testing.T) {
	tmpDir := t.TempDir()
	s, _ := store.New(filepath.Join(tmpDir, "test.db"))
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	tests := []struct {
		name string
		body string
	}{
		{"negative score", `{"score": -1, "length": 3}`},
		{"zero length", `{"score": 2, "length": 0}`},
		{"malformed json", `{"score": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ts.Client().Post(ts.URL+"/api/scores", "application/json", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatalf("POST error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestStateFeed_BroadcastsSnapshots(t *testing.T) {
	fake := &fakeSession{
		snapshot: app.Snapshot{
			Snake: []game.Point{{X: 3, Y: 4}},
			Food:  game.Point{X: 5, Y: 6},
			Score: 2,
			State: game.StateRunning,
			Speed: 9,
		},
	}

	srv := New(Config{State: fake})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/state"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message error = %v", err)
	}

	var payload struct {
		Game struct {
			Score int `json:"score"`
			Speed int `json:"speed"`
			Snake []struct {
				X int `json:"x"`
				Y int `json:"y"`
			} `json:"snake"`
		} `json:"game"`
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(msg, &payload); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}

	if payload.Game.Score != 2 || payload.Game.Speed != 9 {
		t.Errorf("snapshot = %+v, want score 2 speed 9", payload.Game)
	}
	if len(payload.Game.Snake) != 1 || payload.Game.Snake[0].X != 3 {
		t.Errorf("snake = %+v, want single cell at x=3", payload.Game.Snake)
	}
	if payload.Timestamp == 0 {
		t.Error("timestamp missing from broadcast")
	}
}

func TestStream_RequiresGet(t *testing.T) {
	fake := &fakeSession{frame: []byte{0xFF, 0xD8, 0x00}}

	srv := New(Config{Frames: fake})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/stream", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestServer_RoutesDisabledWithoutSources(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	for _, path := range []string{"/api/scores", "/api/stream", "/api/state"} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, resp.StatusCode, http.StatusNotFound)
		}
	}
}
