package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notification carries a payload for one account's feed.
type Notification struct {
	TargetAccountID uuid.UUID
	Payload         []byte
}

// Hub maintains the set of active clients and routes notifications to
// the right account's connections.
type Hub struct {
	// Registered clients. Maps account ID to a set of active client connections.
	Clients map[uuid.UUID]map[*Client]bool

	// Channel for sending notifications to specific accounts.
	SendDirect chan *Notification

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Mutex to protect concurrent access to the clients map.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		SendDirect: make(chan *Notification),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[uuid.UUID]map[*Client]bool),
	}
}

// Run starts the hub's processing loop.
func (h *Hub) Run() {
	log.Println("WebSocket Hub started.")
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.AccountID]; !ok {
				h.Clients[client.AccountID] = make(map[*Client]bool)
			}
			h.Clients[client.AccountID][client] = true
			log.Printf("WebSocket Client registered for Account %s. Total connections for account: %d", client.AccountID, len(h.Clients[client.AccountID]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if accountClients, ok := h.Clients[client.AccountID]; ok {
				if _, clientOk := accountClients[client]; clientOk {
					delete(accountClients, client)
					if len(accountClients) == 0 {
						delete(h.Clients, client.AccountID)
						log.Printf("WebSocket Client unregistered. Account %s has no more connections.", client.AccountID)
					} else {
						log.Printf("WebSocket Client unregistered for Account %s. Remaining connections: %d", client.AccountID, len(accountClients))
					}
				}
			}
			h.mu.Unlock()

		case notification := <-h.SendDirect:
			h.mu.RLock()
			if accountClients, ok := h.Clients[notification.TargetAccountID]; ok {
				for client := range accountClients {
					select {
					case client.Send <- notification.Payload:
					default:
						log.Printf("Send channel full for client of Account %s. Notification dropped for this client.", client.AccountID)
					}
				}
			} else {
				log.Printf("Account %s not connected, dropping notification.", notification.TargetAccountID)
			}
			h.mu.RUnlock()
		}
	}
}

// SendDirectMessage queues a notification for every connection of the
// target account. Fire-and-forget: delivery outcome is not observed.
func (h *Hub) SendDirectMessage(targetAccountID uuid.UUID, payload []byte) {
	notification := &Notification{
		TargetAccountID: targetAccountID,
		Payload:         payload,
	}
	select {
	case h.SendDirect <- notification:
	case <-time.After(1 * time.Second):
		log.Printf("Timeout queuing notification for Account %s. Hub might be busy or blocked.", targetAccountID)
	}
}
