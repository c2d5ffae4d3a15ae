package api

import (
	"net/http"

	"github.com/ayusman/neonorb/internal/gesture"
)

// StateSource exposes the live engine view.
type StateSource interface {
	Snapshot() gesture.Snapshot
	Status() string
}

// StateHandler serves GET /api/state.
type StateHandler struct {
	source StateSource
}

// NewStateHandler creates a StateHandler over source.
func NewStateHandler(source StateSource) *StateHandler {
	return &StateHandler{source: source}
}

type stateResponse struct {
	gesture.Snapshot
	// Status overrides the engine's status with the application's, which
	// also reports pauses and startup errors.
	Status string `json:"status"`
}

func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, stateResponse{
		Snapshot: h.source.Snapshot(),
		Status:   h.source.Status(),
	})
}
