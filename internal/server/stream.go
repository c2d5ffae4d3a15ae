package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/neonorb/internal/capture"
)

// StreamInterval is the MJPEG frame interval (~15 FPS).
const StreamInterval = 66 * time.Millisecond

// StreamHandler serves the pipeline's latest camera frames as MJPEG.
type StreamHandler struct {
	preview  *capture.Preview
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler over preview.
func NewStreamHandler(preview *capture.Preview) *StreamHandler {
	return &StreamHandler{preview: preview, interval: StreamInterval}
}

// ServeHTTP streams MJPEG frames to connected clients. Frames are only sent
// when the preview has a newer picture than the last one written.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	unwatch := h.preview.Watch()
	defer unwatch()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		jpeg, version := h.preview.Latest()
		if version == 0 || version == sent {
			continue
		}
		sent = version

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
