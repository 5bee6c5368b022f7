package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/rulos-nico/17025/internal/models"
)

// Hub maintains the set of connected dashboard clients and fans events
// out to all of them.
type Hub struct {
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				close(old.send)
			}
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔌 Dashboard client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("🔌 Dashboard client disconnected: %s", client.ID)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// buffer full or client dead, drop
					log.Printf("⚠️ Dropping event for slow client %s", id)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"type":    event,
		"payload": payload,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Error marshaling event %s: %v", event, err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("⚠️ Event bus full, dropping %s", event)
	}
}

// NotifyEnsayoState announces a workflow transition.
func (h *Hub) NotifyEnsayoState(ensayoID, codigo string, from, to models.WorkflowState) {
	h.Broadcast("ensayo_state_changed", map[string]string{
		"ensayo_id": ensayoID,
		"codigo":    codigo,
		"from":      string(from),
		"to":        string(to),
	})
}

// NotifySyncRun announces a finished reconciliation run.
func (h *Hub) NotifySyncRun(run *models.SyncRun) {
	h.Broadcast("sync_completed", run)
}

// ClientCount reports the number of connected clients for the status endpoint.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
