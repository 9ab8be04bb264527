// Package watch pushes document changes to live clients and notices edits
// made to the document file outside the service.
package watch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/metrics"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events may queue for one client before it is
	// dropped as too slow.
	sendBuffer = 16
)

// Event is the message pushed to websocket clients
type Event struct {
	Type    string               `json:"type"`
	Kind    portfolio.ChangeKind `json:"kind"`
	Section string               `json:"section,omitempty"`
	At      time.Time            `json:"at"`
}

// Hub maintains the set of active clients and broadcasts document changes
// to them. It implements portfolio.EventSink and http.Handler.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client owns one connection. Only its writer goroutine writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub accepting connections from allowedOrigins. An empty
// list or "*" accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{clients: make(map[*client]struct{})}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	metrics.LiveClients.Inc()
}

// remove forgets c and closes its queue, which stops its writer. It must be
// called with h.mu held and is a no-op for a client already removed.
func (h *Hub) remove(c *client) bool {
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	close(c.send)
	metrics.LiveClients.Dec()
	return true
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			slog.Warn("Dropping live client", "remote", c.conn.RemoteAddr().String(), "err", err)
			return
		}
	}
}

// DocumentChanged queues change for every connected client and returns
// without waiting on the network. Clients whose queue is full are dropped.
func (h *Hub) DocumentChanged(ctx context.Context, change portfolio.Change) {
	message, err := json.Marshal(Event{
		Type:    "document_changed",
		Kind:    change.Kind,
		Section: change.Section,
		At:      time.Now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to encode change event", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			slog.Warn("Dropping slow live client", "queued", len(c.send))
			h.remove(c)
		}
	}
}

// ServeHTTP upgrades the request and holds the connection until the client
// goes away. Clients are not expected to send anything.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(c)
	slog.Debug("Live client connected", "remote", conn.RemoteAddr().String())
	go h.writePump(c)
	defer func() {
		h.mu.Lock()
		if h.remove(c) {
			slog.Debug("Live client disconnected", "remote", conn.RemoteAddr().String())
		}
		h.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.remove(c)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.conn.Close()
	}
}
