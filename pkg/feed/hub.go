// Package feed exposes a session's read-only observables to UI
// consumers: a JSON snapshot endpoint and a websocket stream that
// pushes state at a UI-friendly rate. The session core knows nothing
// about it; the feed only ever reads snapshots.
package feed

import (
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/poselink/poselink/internal/log"
)

// Hub fans snapshot frames out to connected websocket clients using
// the channel-based broadcast pattern. Slow clients are dropped rather
// than allowed to stall the feed.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	mu sync.Mutex
}

// NewHub creates a hub. Call Run in a goroutine before serving.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run is the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			log.Debug("feed client connected", "total", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case frame := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- frame:
				default:
					// full buffer means the client cannot keep up
					close(c.send)
					delete(h.clients, c)
					log.Warn("dropped slow feed client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a frame for all clients. Frames are dropped when
// the hub itself is saturated; the next snapshot supersedes them
// anyway.
func (h *Hub) Broadcast(frame []byte) {
	select {
	case h.broadcast <- frame:
	default:
	}
}

// Serve registers the websocket connection and pumps frames to it
// until it disconnects. Intended to be called from the websocket
// handler; it blocks for the connection's lifetime.
func (h *Hub) Serve(conn *websocket.Conn) {
	c := &client{hub: h, conn: conn, send: make(chan []byte, 32)}
	h.register <- c
	go c.writePump()
	c.readPump()
}
