package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

const (
	// AudienceTourists receives routine safety alerts ("are you okay",
	// near-zone warnings). AudienceResponders receives case snapshots on
	// escalation and resolution, never the tourist-facing chatter.
	AudienceTourists   = "tourists"
	AudienceResponders = "responders"
)

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	audiences  map[string]map[*Client]bool
	mutex      sync.RWMutex
}

type Message struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		audiences:  make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true

	if h.audiences[client.Audience] == nil {
		h.audiences[client.Audience] = make(map[*Client]bool)
	}
	h.audiences[client.Audience][client] = true

	log.Printf("Client connected (audience=%s)", client.Audience)

	welcome := Message{
		Type:      "welcome",
		Timestamp: getCurrentTimestamp(),
		Data:      map[string]interface{}{"message": "Connected successfully"},
	}
	h.sendToClient(client, welcome)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		if audience, exists := h.audiences[client.Audience]; exists {
			delete(audience, client)
			if len(audience) == 0 {
				delete(h.audiences, client.Audience)
			}
		}

		log.Printf("Client disconnected (audience=%s)", client.Audience)
	}
}

// Broadcast delivers an event to every client in the audience. Sends never
// block: a client whose buffer is full is dropped rather than allowed to stall
// the other channels.
func (h *Hub) Broadcast(audience, eventType string, data interface{}) {
	message := Message{
		Type:      eventType,
		Timestamp: getCurrentTimestamp(),
		Data:      data,
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	clients, exists := h.audiences[audience]
	if !exists {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling broadcast message: %v", err)
		return
	}

	for client := range clients {
		select {
		case client.send <- payload:
		default:
			close(client.send)
			delete(h.clients, client)
			delete(clients, client)
		}
	}
}

func (h *Hub) sendToClient(client *Client, message Message) {
	payload, _ := json.Marshal(message)
	select {
	case client.send <- payload:
	default:
		close(client.send)
		delete(h.clients, client)
	}
}

// AudienceSize reports the number of connected clients for an audience.
func (h *Hub) AudienceSize(audience string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.audiences[audience])
}

func getCurrentTimestamp() int64 {
	return time.Now().Unix()
}
