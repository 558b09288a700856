// Package websocket streams moderation events to connected admin sessions.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
)

const (
	clientSendBuffer = 64
	broadcastBuffer  = 256
)

// Event is one message on the admin feed.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Client is one admin websocket session.
type Client struct {
	Hub   *Hub
	Conn  *Conn
	Email string
	Send  chan []byte
}

// NewClient builds a client with the default send buffer.
func NewClient(hub *Hub, conn *Conn, email string) *Client {
	return &Client{Hub: hub, Conn: conn, Email: email, Send: make(chan []byte, clientSendBuffer)}
}

// Hub fans feed events out to every registered client. One goroutine (Run)
// owns the client set.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu    sync.RWMutex
	count int

	// done is closed when Run returns. stopMu orders late registrations
	// against the final drain of the register queue.
	done    chan struct{}
	stopMu  sync.Mutex
	stopped bool

	now func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// Run serializes register, unregister and broadcast until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.clients[client] = true
			h.setCount(len(h.clients))
			logger.Info("Admin feed client registered", map[string]interface{}{
				"email":   client.Email,
				"clients": len(h.clients),
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					logger.Warn("Admin feed client too slow, disconnecting", map[string]interface{}{
						"email": client.Email,
					})
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)

	h.stopMu.Lock()
	h.stopped = true
	h.stopMu.Unlock()

drain:
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		default:
			break drain
		}
	}
	for client := range h.clients {
		close(client.Send)
		delete(h.clients, client)
	}
	h.setCount(0)
	logger.Info("Admin feed hub stopped")
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	h.setCount(len(h.clients))
	logger.Info("Admin feed client unregistered", map[string]interface{}{
		"email":   client.Email,
		"clients": len(h.clients),
	})
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// Publish queues an event for every connected admin. It never blocks; when
// the broadcast queue is full the event is dropped.
func (h *Hub) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, At: h.now().UTC()})
	if err != nil {
		logger.Error("Failed to marshal feed event", err, map[string]interface{}{
			"type": eventType,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Admin feed queue full, event dropped", map[string]interface{}{
			"type": eventType,
		})
	}
}

// Register adds a client to the hub. Once the hub has stopped the client's
// Send channel is closed right away so its write pump exits.
func (h *Hub) Register(client *Client) {
	h.stopMu.Lock()
	defer h.stopMu.Unlock()
	if h.stopped {
		close(client.Send)
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes a client from the hub. It returns immediately after the
// hub has stopped, since shutdown already closed every client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected admin sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}
