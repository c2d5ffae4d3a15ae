package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/neonorb/internal/store"
)

// SessionsHandler handles HTTP requests for recorded sessions.
type SessionsHandler struct {
	store  *store.Store
	active func() string
}

// NewSessionsHandler creates a new SessionsHandler. active reports the ID of
// the session being recorded, which cannot be deleted; it may be nil.
func NewSessionsHandler(s *store.Store, active func() string) *SessionsHandler {
	if active == nil {
		active = func() string { return "" }
	}
	return &SessionsHandler{store: s, active: active}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/sessions, /api/sessions/{id}, /api/sessions/{id}/events,
// /api/sessions/{id}/frames
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := parts[0]

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case len(parts) == 2 && (parts[1] == "events" || parts[1] == "frames"):
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if parts[1] == "events" {
			h.events(w, r, id)
		} else {
			h.frames(w, r, id)
		}
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Response types

type sessionResponse struct {
	ID        string `json:"id"`
	StartedAt string `json:"started_at"`
	EndedAt   string `json:"ended_at,omitempty"`
	Active    bool   `json:"active"`
	Seed      uint64 `json:"seed"`
	Frames    int    `json:"frames"`
	Triggers  int    `json:"triggers"`
	Config    string `json:"config,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type eventResponse struct {
	TimestampMs int64   `json:"timestamp_ms"`
	Previous    string  `json:"previous"`
	Color       string  `json:"color"`
	Scale       float64 `json:"scale"`
	Distance    float64 `json:"distance"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

type frameResponse struct {
	Seq         int64           `json:"seq"`
	TimestampMs int64           `json:"timestamp_ms"`
	Hands       json.RawMessage `json:"hands"`
}

type listFramesResponse struct {
	Frames []frameResponse `json:"frames"`
}

func (h *SessionsHandler) toResponse(s *store.Session, withConfig bool) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		StartedAt: formatTime(s.StartedAt),
		Active:    s.ID == h.active(),
		Seed:      s.Seed,
		Frames:    s.Frames,
		Triggers:  s.Triggers,
	}
	if s.EndedAt != nil {
		resp.EndedAt = formatTime(*s.EndedAt)
	}
	if withConfig {
		resp.Config = s.Config
	}
	return resp
}

// list handles GET /api/sessions
func (h *SessionsHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, h.toResponse(s, false))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}
func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sess, ok := h.lookup(w, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(sess, true))
}

// events handles GET /api/sessions/{id}/events
func (h *SessionsHandler) events(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.lookup(w, id); !ok {
		return
	}

	events, err := h.store.Events().GetBySessionID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{
		Events: make([]eventResponse, 0, len(events)),
	}
	for _, e := range events {
		response.Events = append(response.Events, eventResponse{
			TimestampMs: e.TimestampMs,
			Previous:    e.Previous,
			Color:       e.Color,
			Scale:       e.Scale,
			Distance:    e.Distance,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// frames handles GET /api/sessions/{id}/frames
func (h *SessionsHandler) frames(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.lookup(w, id); !ok {
		return
	}

	frames, err := h.store.Frames().GetBySessionID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list frames")
		return
	}

	response := listFramesResponse{
		Frames: make([]frameResponse, 0, len(frames)),
	}
	for _, f := range frames {
		response.Frames = append(response.Frames, frameResponse{
			Seq:         f.Seq,
			TimestampMs: f.TimestampMs,
			Hands:       f.Hands,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// delete handles DELETE /api/sessions/{id}
func (h *SessionsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if id == h.active() {
		writeError(w, http.StatusConflict, "Session is still recording")
		return
	}

	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionsHandler) lookup(w http.ResponseWriter, id string) (*store.Session, bool) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return nil, false
	}
	return sess, true
}
