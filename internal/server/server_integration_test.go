package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/neonorb/internal/capture"
	"github.com/ayusman/neonorb/internal/gesture"
	"github.com/ayusman/neonorb/internal/render"
	"github.com/ayusman/neonorb/internal/store"
)

type staticState struct{ snap gesture.Snapshot }

func (s staticState) Snapshot() gesture.Snapshot { return s.snap }
func (s staticState) Status() string             { return s.snap.Status }

func TestAPI_SessionWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	if err := s.Sessions().Create(&store.Session{ID: "s1", Seed: 3}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	ev := &store.TriggerEvent{SessionID: "s1", TimestampMs: 120, Previous: "#ff00ff", Color: "#39ff14", Scale: 1.3, Distance: 0.2}
	if err := s.Events().Create(ev); err != nil {
		t.Fatalf("Events().Create() error = %v", err)
	}

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. List sessions
	resp, err := client.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions error = %v", err)
	}
	var list struct {
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&list)
	resp.Body.Close()
	if len(list.Sessions) != 1 || list.Sessions[0].ID != "s1" {
		t.Fatalf("sessions = %+v", list.Sessions)
	}

	// 2. Read its events
	resp, err = client.Get(ts.URL + "/api/sessions/s1/events")
	if err != nil {
		t.Fatalf("GET events error = %v", err)
	}
	var events struct {
		Events []struct {
			Color string `json:"color"`
		} `json:"events"`
	}
	json.NewDecoder(resp.Body).Decode(&events)
	resp.Body.Close()
	if len(events.Events) != 1 || events.Events[0].Color != "#39ff14" {
		t.Errorf("events = %+v", events.Events)
	}

	// 3. Delete it
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/s1", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	// 4. Verify it's gone
	resp, err = client.Get(ts.URL + "/api/sessions/s1")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{Hub: NewHub(render.DefaultOverlay())})
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
		Status  string `json:"status"`
		Uptime  string `json:"uptime"`
		Viewers *int   `json:"viewers"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
	if health.Viewers == nil || *health.Viewers != 0 {
		t.Errorf("viewers = %v, want 0", health.Viewers)
	}
}

func TestAPI_State(t *testing.T) {
	src := staticState{snap: gesture.Snapshot{Scale: 0.5, Color: gesture.Orange, Status: "1 hand detected"}}
	ts := httptest.NewServer(New(Config{State: src}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state error = %v", err)
	}
	defer resp.Body.Close()

	var state struct {
		Scale  float64 `json:"scale"`
		Color  string  `json:"color"`
		Status string  `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if state.Scale != 0.5 || state.Color != "#ff6600" || state.Status != "1 hand detected" {
		t.Errorf("state = %+v", state)
	}
}

func TestAPI_RenderFeed(t *testing.T) {
	hub := NewHub(render.DefaultOverlay())
	defer hub.Close()
	ts := httptest.NewServer(New(Config{Hub: hub}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var hello struct {
		Type    string `json:"type"`
		Overlay struct {
			Connections [][2]int `json:"connections"`
			LeftColor   string   `json:"leftColor"`
		} `json:"overlay"`
	}
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello error = %v", err)
	}
	if hello.Type != MessageHello || len(hello.Overlay.Connections) != 24 || hello.Overlay.LeftColor != "#00ff00" {
		t.Errorf("hello = %+v", hello)
	}
	if hub.Clients() != 1 {
		t.Errorf("Clients() = %d, want 1", hub.Clients())
	}

	hub.Render(render.Frame{Tick: 5, Scale: 1.2, Color: "#ffff00", Opacity: 0.49})

	var frame struct {
		Type  string  `json:"type"`
		Tick  uint64  `json:"tick"`
		Scale float64 `json:"scale"`
		Color string  `json:"color"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame error = %v", err)
	}
	if frame.Type != MessageFrame || frame.Tick != 5 || frame.Scale != 1.2 || frame.Color != "#ffff00" {
		t.Errorf("frame = %+v", frame)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("viewer was not removed after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAPI_Stream(t *testing.T) {
	preview := capture.NewPreview()
	preview.Store([]byte{0xFF, 0xD8, 0xFF, 0xD9})

	ts := httptest.NewServer(New(Config{Preview: preview}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("Content-Type = %q", ct)
	}

	r := bufio.NewReader(resp.Body)
	var sawBoundary, sawLength bool
	for !(sawBoundary && sawLength) {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream error = %v", err)
		}
		switch strings.TrimSpace(line) {
		case "--frame":
			sawBoundary = true
		case "Content-Length: 4":
			sawLength = true
		}
	}

	if preview.Viewers() != 1 {
		t.Errorf("Viewers() = %d while streaming, want 1", preview.Viewers())
	}
}
