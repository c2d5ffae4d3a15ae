package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/neonorb/internal/render"
)

const (
	writeWait  = 2 * time.Second
	sendBuffer = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message types on the render feed.
const (
	MessageHello = "hello"
	MessageFrame = "frame"
)

type helloMessage struct {
	Type    string         `json:"type"`
	Overlay render.Overlay `json:"overlay"`
}

type frameMessage struct {
	Type string `json:"type"`
	render.Frame
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans render frames out to websocket viewers. It implements
// render.Sink; a slow viewer drops frames instead of stalling the loop.
type Hub struct {
	hello   []byte
	clients map[*client]struct{}
	mu      sync.RWMutex
}

// NewHub creates a hub that greets viewers with overlay.
func NewHub(overlay render.Overlay) *Hub {
	hello, _ := json.Marshal(helloMessage{Type: MessageHello, Overlay: overlay})
	return &Hub{
		hello:   hello,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	c.send <- h.hello

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	slog.Debug("viewer connected", "remote", r.RemoteAddr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(c)
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(c)
	<-done
	conn.Close()
	slog.Debug("viewer disconnected", "remote", r.RemoteAddr)
}

// Render implements render.Sink.
func (h *Hub) Render(f render.Frame) {
	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	if n == 0 {
		return
	}

	msg, err := json.Marshal(frameMessage{Type: MessageFrame, Frame: f})
	if err != nil {
		slog.Warn("encode render frame", "error", err)
		return
	}
	h.Broadcast(msg)
}

// Broadcast queues msg for every viewer, skipping those whose buffer is full.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// writeLoop is the connection's only writer.
func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			// unblock the reader so ServeHTTP can clean up
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
