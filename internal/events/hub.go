package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// HubConfig configures the websocket hub
type HubConfig struct {
	// CheckOrigin overrides the upgrader origin check; nil allows any origin
	CheckOrigin func(r *http.Request) bool

	// BroadcastBuffer is the number of events queued before Publish drops
	BroadcastBuffer int
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	kingdomID string
	send      chan []byte
}

// Hub fans events out to connected websocket clients. A client may
// subscribe to a single kingdom with ?kingdom_id=.
type Hub struct {
	upgrader   websocket.Upgrader
	broadcast  chan Event
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*client]struct{}
}

var _ Publisher = (*Hub)(nil)

// NewHub creates a hub; call Run to start delivery
func NewHub(cfg *HubConfig) *Hub {
	if cfg == nil {
		cfg = &HubConfig{}
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	buffer := cfg.BroadcastBuffer
	if buffer <= 0 {
		buffer = 256
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		broadcast:  make(chan Event, buffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

// Run delivers events until ctx is cancelled, then disconnects every
// client. Run must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			slog.DebugContext(ctx, "websocket client connected", "kingdom_id", c.kingdomID)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.deliver(ctx, event)
		}
	}
}

func (h *Hub) deliver(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal event", "type", event.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.kingdomID != "" && c.kingdomID != event.KingdomID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			// Slow consumer
			delete(h.clients, c)
			close(c.send)
			slog.WarnContext(ctx, "dropping slow websocket client", "kingdom_id", c.kingdomID)
		}
	}
}

// Publish queues an event for delivery. When the queue is full the event
// is dropped and logged.
func (h *Hub) Publish(ctx context.Context, event Event) {
	select {
	case h.broadcast <- event:
	default:
		slog.WarnContext(ctx, "event queue full, dropping event",
			"type", event.Type,
			"kingdom_id", event.KingdomID)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and registers the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		slog.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		kingdomID: r.URL.Query().Get("kingdom_id"),
		send:      make(chan []byte, sendBufferSize),
	}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	case <-r.Context().Done():
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump only watches for the peer going away; inbound messages are ignored
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
