package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Client wraps one WebSocket connection. A user may hold several clients
// (multiple tabs/devices), so clients are keyed by a connection id, not the
// user id.
type Client struct {
	ID       string
	UserID   uint
	Conn     *websocket.Conn
	LastPong time.Time

	writeMux   sync.Mutex
	pingTicker *time.Ticker
	closeChan  chan struct{}
}

// WriteJSON serializes writes; gofiber websocket connections are not safe for
// concurrent writers.
func (c *Client) WriteJSON(data interface{}) error {
	c.writeMux.Lock()
	defer c.writeMux.Unlock()
	return c.Conn.WriteJSON(data)
}

func (c *Client) writeRaw(frameType int, payload []byte) error {
	c.writeMux.Lock()
	defer c.writeMux.Unlock()
	return c.Conn.WriteMessage(frameType, payload)
}

// Hub maps rooms to their subscribed clients and fans events out to them.
// It holds connection bookkeeping only; unread state is always derived fresh
// by the services, so every subscriber converges on the same counts.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[uint]map[string]*Client
	// reverse index so a disconnect can leave all its rooms
	memberships map[string]map[uint]bool

	pingInterval time.Duration
	pongTimeout  time.Duration
}

func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[string]*Client),
		rooms:        make(map[uint]map[string]*Client),
		memberships:  make(map[string]map[uint]bool),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a connection with health monitoring and returns its client.
func (h *Hub) Register(userID uint, conn *websocket.Conn) *Client {
	client := &Client{
		ID:         uuid.NewString(),
		UserID:     userID,
		Conn:       conn,
		LastPong:   time.Now(),
		pingTicker: time.NewTicker(h.pingInterval),
		closeChan:  make(chan struct{}),
	}

	conn.SetPongHandler(func(appData string) error {
		h.mu.Lock()
		if c, exists := h.clients[client.ID]; exists {
			c.LastPong = time.Now()
		}
		h.mu.Unlock()
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.mu.Lock()
	h.clients[client.ID] = client
	h.memberships[client.ID] = make(map[uint]bool)
	total := len(h.clients)
	h.mu.Unlock()

	go h.pingRoutine(client)

	log.Printf("User %d connected (conn %s, total: %d)", userID, client.ID, total)
	return client
}

// Unregister removes a client and drops it from every room group.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if c, exists := h.clients[client.ID]; exists {
		if c.pingTicker != nil {
			c.pingTicker.Stop()
		}
		close(c.closeChan)
	}
	for roomID := range h.memberships[client.ID] {
		delete(h.rooms[roomID], client.ID)
		if len(h.rooms[roomID]) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(h.memberships, client.ID)
	delete(h.clients, client.ID)
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("User %d disconnected (conn %s, total: %d)", client.UserID, client.ID, total)
}

// JoinRoom subscribes the client to a room's broadcast group.
func (h *Hub) JoinRoom(client *Client, roomID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][client.ID] = client
	if _, ok := h.memberships[client.ID]; !ok {
		h.memberships[client.ID] = make(map[uint]bool)
	}
	h.memberships[client.ID][roomID] = true
}

// LeaveRoom unsubscribes the client from a room's broadcast group.
func (h *Hub) LeaveRoom(client *Client, roomID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[roomID], client.ID)
	if len(h.rooms[roomID]) == 0 {
		delete(h.rooms, roomID)
	}
	delete(h.memberships[client.ID], roomID)
}

// BroadcastToRoom delivers data to every client subscribed to the room.
// Failed writes evict the connection; delivery is fire-and-forget and never
// affects the mutation that triggered it.
func (h *Hub) BroadcastToRoom(roomID uint, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling broadcast for room %d: %v", roomID, err)
		return
	}

	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.rooms[roomID]))
	for _, client := range h.rooms[roomID] {
		subscribers = append(subscribers, client)
	}
	h.mu.RUnlock()

	for _, client := range subscribers {
		if err := client.writeRaw(websocket.TextMessage, jsonData); err != nil {
			log.Printf("Error broadcasting to user %d in room %d: %v", client.UserID, roomID, err)
			h.Unregister(client)
		}
	}
}

// RoomSubscribers returns how many connections are subscribed to the room.
func (h *Hub) RoomSubscribers(roomID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// pingRoutine sends periodic ping messages to keep the connection alive
func (h *Hub) pingRoutine(client *Client) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for user %d: %v", client.UserID, r)
		}
	}()

	for {
		select {
		case <-client.closeChan:
			return
		case <-client.pingTicker.C:
			h.mu.RLock()
			_, exists := h.clients[client.ID]
			h.mu.RUnlock()
			if !exists {
				return
			}

			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("Ping failed for user %d: %v", client.UserID, err)
				h.Unregister(client)
				return
			}
		}
	}
}

// connectionHealthChecker evicts connections that stopped answering pings
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		dead := make([]*Client, 0)
		now := time.Now()
		for _, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				dead = append(dead, client)
			}
		}
		h.mu.RUnlock()

		for _, client := range dead {
			log.Printf("Removing dead connection for user %d (no pong received)", client.UserID)
			h.Unregister(client)
		}
	}
}
