package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/lixenwraith/celldomain/parameter"
)

const writeTimeout = 3 * time.Second

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Hub fans overlay frames out to websocket clients
// Each client has a bounded queue, a slow client drops frames instead of stalling the rest
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	log     *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{clients: make(map[uuid.UUID]*client), log: log}
}

// Add registers a connection and starts its writer
func (h *Hub) Add(conn *websocket.Conn) uuid.UUID {
	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, parameter.OverlayStreamBuffer),
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	go h.writer(c)
	h.log.Debug("stream client added", "client", c.id)
	return c.id
}

// Remove drops a client and closes its connection, safe to call twice
func (h *Hub) Remove(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close(websocket.StatusNormalClosure, "")
		h.log.Debug("stream client removed", "client", id)
	}
}

// Send queues a message for one client
func (h *Hub) Send(id uuid.UUID, message []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return false
	}
	return h.enqueue(c, message)
}

// Broadcast queues a message for every client
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	for _, c := range h.clients {
		h.enqueue(c, message)
	}
	h.mu.Unlock()
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// enqueue must be called with mu held
func (h *Hub) enqueue(c *client, message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		h.log.Warn("stream client lagging, frame dropped", "client", c.id)
		return false
	}
}

func (h *Hub) writer(c *client) {
	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			h.Remove(c.id)
			return
		}
	}
}
