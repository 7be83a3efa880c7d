package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Event is one push notification to the attached UI surface.
type Event struct {
	Type string      `json:"type"`
	View string      `json:"view,omitempty"`
	At   time.Time   `json:"at,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// Hub tracks connected UI surfaces and fans view-refresh events out to
// them. A surface reacting to an event re-fetches the view it names.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run processes register/unregister/broadcast traffic until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Info().Str("client_id", client.id).Msg("Console surface connected")

			welcome := Event{
				Type: "connection",
				Data: map[string]string{"status": "connected"},
			}
			if msg, err := json.Marshal(welcome); err == nil {
				client.send <- msg
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.mu.Unlock()
				log.Info().Str("client_id", client.id).Msg("Console surface disconnected")
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastRefresh tells every connected surface that a view has new data.
func (h *Hub) BroadcastRefresh(view string) {
	event := Event{Type: "view_refresh", View: view, At: time.Now()}
	if msg, err := json.Marshal(event); err == nil {
		h.broadcast <- msg
	}
}

// GetConnectedClients returns the number of connected surfaces.
func (h *Hub) GetConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
