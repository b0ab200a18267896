package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/filemart/filemart-backend/pkg/logger"
)

// CatalogEvent is pushed to dashboard clients when the catalog changes
// so open listings can reload
type CatalogEvent struct {
	Type      string `json:"type"`
	StoreID   uint   `json:"store_id"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
}

const EventProductSaved = "product.saved"

// Client is one dashboard WebSocket session
type Client struct {
	Hub     *Hub
	Conn    *Conn
	UserID  uint
	StoreID uint
	Send    chan []byte

	// incoming rate limiting
	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

// Hub manages dashboard connections. Clients are grouped by store;
// one merchant may have several sessions open.
type Hub struct {
	// UserID -> sessions (multi-device support)
	clients map[uint][]*Client

	// StoreID -> set of UserIDs with live sessions
	stores map[uint]map[uint]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *storeMessage

	mu sync.RWMutex
}

type storeMessage struct {
	StoreID uint
	Message []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		stores:     make(map[uint]map[uint]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *storeMessage, 1024),
	}
}

// Run processes registrations and broadcasts. Call in its own
// goroutine at startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			if _, ok := h.stores[client.StoreID]; !ok {
				h.stores[client.StoreID] = make(map[uint]bool)
			}
			h.stores[client.StoreID][client.UserID] = true
			h.mu.Unlock()
			logger.Info("Dashboard client connected", map[string]interface{}{
				"user_id":        client.UserID,
				"store_id":       client.StoreID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
					if users, ok := h.stores[client.StoreID]; ok {
						delete(users, client.UserID)
						if len(users) == 0 {
							delete(h.stores, client.StoreID)
						}
					}
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Dashboard client disconnected", map[string]interface{}{
				"user_id":  client.UserID,
				"store_id": client.StoreID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			if users, ok := h.stores[message.StoreID]; ok {
				for userID := range users {
					if clientList, ok := h.clients[userID]; ok {
						for _, client := range clientList {
							select {
							case client.Send <- message.Message:
							default:
								// send buffer full, drop the session
								go h.Unregister(client)
								logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
									"user_id": userID,
								})
							}
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SendToStore pushes a message to every session watching a store
func (h *Hub) SendToStore(storeID uint, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal message", err, nil)
		return err
	}

	select {
	case h.broadcast <- &storeMessage{StoreID: storeID, Message: data}:
		return nil
	default:
		// events are advisory, dropping one is acceptable
		logger.Warn("Broadcast channel full, message dropped", map[string]interface{}{
			"store_id": storeID,
		})
		return nil
	}
}

// PublishProductSaved notifies store dashboards that a product was
// created or updated
func (h *Hub) PublishProductSaved(storeID, productID uint, name string) {
	_ = h.SendToStore(storeID, CatalogEvent{
		Type:      EventProductSaved,
		StoreID:   storeID,
		ProductID: productID,
		Name:      name,
	})
}

// Register adds a client
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether the user has at least one live session
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// HandleClientMessage processes an incoming client frame. The dashboard
// protocol is push-only; inbound traffic is rate limited and otherwise
// ignored.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	logger.Debug("Ignoring inbound dashboard frame", map[string]interface{}{
		"user_id": client.UserID,
		"size":    len(message),
	})
}
