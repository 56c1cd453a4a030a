package gateway

import (
	"log"
	"sync/atomic"
)

// Central hub tracking all sessions. Each WebSocket connection runs in its
// own goroutines but registry changes and broadcasts all go through the Run
// loop to avoid race conditions. Sessions are otherwise independent; the
// registry exists only for the reverse (engine -> UI) path and shutdown.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	clients    map[string]*Client
	count      atomic.Int32
	done       chan struct{}
}

// NewHub creates the session registry.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
		clients:    make(map[string]*Client),
		done:       make(chan struct{}),
	}
}

// Run processes registry and broadcast events until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client
			h.count.Store(int32(len(h.clients)))
			log.Printf("Session %s connected (%d active)", client.ID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.SendChannel)
				h.count.Store(int32(len(h.clients)))
				log.Printf("Session %s disconnected (%d active)", client.ID, len(h.clients))
			}

		case data := <-h.broadcast:
			for _, client := range h.clients {
				client.Enqueue(data)
			}

		case <-h.done:
			for id, client := range h.clients {
				close(client.SendChannel)
				delete(h.clients, id)
			}
			h.count.Store(0)
			return
		}
	}
}

// Add registers a new session.
func (h *Hub) Add(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Drop unregisters a session. Safe to call after the hub has stopped.
func (h *Hub) Drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues a frame for every connected session.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// Count returns the number of active sessions.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

// Stop drops all sessions and terminates the Run loop.
func (h *Hub) Stop() {
	close(h.done)
}
