package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a connected staff dashboard session
type Client struct {
	Hub     *Hub
	UserID  uint
	HotelID uint
	Role    string
	Conn    *websocket.Conn
	Send    chan []byte
}

// Hub manages all task feed connections. Events are scoped by hotel so
// staff only see activity for the property they work at.
type Hub struct {
	// Registered clients keyed by user ID
	Clients map[uint]*Client

	// Broadcast channel for task feed events
	Broadcast chan *Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// Event is one entry in the staff task feed
type Event struct {
	Type      string      `json:"type"`
	RequestID uint        `json:"request_id,omitempty"`
	HotelID   uint        `json:"hotel_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewHub creates a new task feed hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uint]*Client),
		Broadcast:  make(chan *Event),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if old, ok := h.Clients[client.UserID]; ok {
				// One feed per user; a reconnect replaces the stale session
				close(old.Send)
			}
			h.Clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("🔌 Task feed client registered: user=%d hotel=%d role=%s", client.UserID, client.HotelID, client.Role)

		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.UserID]; ok && current == client {
				delete(h.Clients, client.UserID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Task feed client unregistered: user=%d", client.UserID)

		case event := <-h.Broadcast:
			h.broadcastEvent(event)
		}
	}
}

// broadcastEvent delivers an event to every client in its hotel scope.
// An event with HotelID zero reaches all clients; a client with HotelID
// zero sits on the cross-hotel feed and receives everything.
func (h *Hub) broadcastEvent(event *Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Error marshaling task feed event: %v", err)
		return
	}

	for userID, client := range h.Clients {
		if event.HotelID != 0 && client.HotelID != 0 && client.HotelID != event.HotelID {
			continue
		}
		select {
		case client.Send <- data:
		default:
			close(client.Send)
			delete(h.Clients, userID)
		}
	}
}

// BroadcastRequestEvent publishes a lifecycle change to the hotel's feed
func (h *Hub) BroadcastRequestEvent(eventType string, requestID, hotelID uint, data interface{}) {
	h.Broadcast <- &Event{
		Type:      eventType,
		RequestID: requestID,
		HotelID:   hotelID,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// SendToUser delivers an event to one connected user, if present
func (h *Hub) SendToUser(userID uint, event *Event) {
	h.mu.RLock()
	client, exists := h.Clients[userID]
	h.mu.RUnlock()

	if !exists {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ Error marshaling task feed event: %v", err)
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("⚠️ User %d's send buffer is full", userID)
	}
}

// ConnectedUsers returns the IDs of currently connected users
func (h *Hub) ConnectedUsers() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uint, 0, len(h.Clients))
	for userID := range h.Clients {
		users = append(users, userID)
	}
	return users
}

// IsUserConnected checks if a user has an open feed
func (h *Hub) IsUserConnected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.Clients[userID]
	return exists
}
