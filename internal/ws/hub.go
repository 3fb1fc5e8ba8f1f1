package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// restaurantMessage is an internal struct for routing a message to one
// restaurant's room.
type restaurantMessage struct {
	RestaurantID uuid.UUID
	Message      []byte
}

// Hub maintains the floor snapshot subscribers and fans messages out to them
type Hub struct {
	// Registered clients by restaurant ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	// Outbound messages to broadcast
	broadcast chan *restaurantMessage

	// Called after a client joins so it gets a snapshot without waiting
	// for the next tick.
	onJoin func(restaurantID uuid.UUID)

	subscribers prometheus.Gauge
	logger      *zap.Logger

	mu sync.RWMutex
}

// NewHub creates a new Hub. subscribers tracks the connected client count.
func NewHub(subscribers prometheus.Gauge, logger *zap.Logger) *Hub {
	return &Hub{
		rooms:       make(map[uuid.UUID]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *restaurantMessage, 256),
		onJoin:      func(uuid.UUID) {},
		subscribers: subscribers,
		logger:      logger,
	}
}

// OnJoin sets the callback run when a client subscribes. Must be called
// before Run.
func (h *Hub) OnJoin(fn func(restaurantID uuid.UUID)) {
	h.onJoin = fn
}

// Run starts the hub's main loop
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.restaurantID] == nil {
				h.rooms[client.restaurantID] = make(map[*Client]bool)
			}
			h.rooms[client.restaurantID][client] = true
			h.mu.Unlock()
			h.subscribers.Inc()
			h.onJoin(client.restaurantID)

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.rooms[msg.RestaurantID] {
				select {
				case client.send <- msg.Message:
				default:
					// Slow consumer; it reconnects and catches up on the next snapshot.
					h.logger.Warn("dropping slow floor subscriber",
						zap.String("restaurant_id", msg.RestaurantID.String()))
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops client from its room. Caller holds h.mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.restaurantID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	h.subscribers.Dec()
	if len(clients) == 0 {
		delete(h.rooms, client.restaurantID)
	}
}

// ActiveRestaurants lists restaurants with at least one subscriber.
func (h *Hub) ActiveRestaurants() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(h.rooms))
	for id := range h.rooms {
		ids = append(ids, id)
	}
	return ids
}

// BroadcastToRestaurant sends msg to every subscriber of restaurantID.
func (h *Hub) BroadcastToRestaurant(restaurantID uuid.UUID, msg []byte) {
	h.broadcast <- &restaurantMessage{
		RestaurantID: restaurantID,
		Message:      msg,
	}
}
