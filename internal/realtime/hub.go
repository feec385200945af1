package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

// Room name prefixes. An order publish fans out to the primary tracking
// room, a legacy-named room kept for older clients, and the global feed.
const (
	trackingRoomPrefix    = "tracking-"
	legacyOrderRoomPrefix = "order-"
	reservationRoomPrefix = "reservation-"
)

// StatusUpdate is the payload broadcast on order status changes
type StatusUpdate struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes"`
	UpdatedBy string    `json:"updatedBy"`
}

type outboundMessage struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"orderId,omitempty"`
	Status    string      `json:"status,omitempty"`
	Timestamp *time.Time  `json:"timestamp,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	UpdatedBy string      `json:"updatedBy,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub maintains the set of live connections and their room memberships.
// One instance is created at server startup and injected into the services
// that publish; there is no process-wide singleton.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	logger  logger.Logger
}

// NewHub creates an empty hub
func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
		logger:  logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

// unregister removes the client from the hub and from every room it joined;
// memberships are discarded with the connection.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)

	for room := range c.rooms {
		h.removeFromRoom(c, room)
	}
}

// JoinOrderRoom subscribes the client to both the tracking room and the
// legacy order room for the given order.
func (h *Hub) JoinOrderRoom(c *Client, orderID string) {
	h.join(c, trackingRoomPrefix+orderID)
	h.join(c, legacyOrderRoomPrefix+orderID)
	h.logger.Debug("Client joined order rooms", "orderID", orderID)
}

// JoinReservationRoom subscribes the client to the reservation room
func (h *Hub) JoinReservationRoom(c *Client, reservationID string) {
	h.join(c, reservationRoomPrefix+reservationID)
	h.logger.Debug("Client joined reservation room", "reservationID", reservationID)
}

// LeaveOrderRoom removes the client from both order rooms. Leaving is
// optional; disconnect cleans up memberships anyway.
func (h *Hub) LeaveOrderRoom(c *Client, orderID string) {
	h.leave(c, trackingRoomPrefix+orderID)
	h.leave(c, legacyOrderRoomPrefix+orderID)
}

// LeaveReservationRoom removes the client from the reservation room
func (h *Hub) LeaveReservationRoom(c *Client, reservationID string) {
	h.leave(c, reservationRoomPrefix+reservationID)
}

func (h *Hub) join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[c] = true
	c.rooms[room] = true
}

func (h *Hub) leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(c, room)
	delete(c.rooms, room)
}

// removeFromRoom requires h.mu held
func (h *Hub) removeFromRoom(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// PublishOrderStatus emits a status update to the order's tracking room, its
// legacy room and the global feed. Delivery is best-effort: with no
// subscribers the publish is a no-op, and nothing is queued for clients that
// connect later.
func (h *Hub) PublishOrderStatus(orderID string, update StatusUpdate) {
	ts := update.Timestamp

	trackingMsg := h.encode(outboundMessage{
		Type:      "order-status-update",
		Status:    update.Status,
		Timestamp: &ts,
		Notes:     update.Notes,
		UpdatedBy: update.UpdatedBy,
	})
	legacyMsg := h.encode(outboundMessage{
		Type:      "order-status-update",
		OrderID:   orderID,
		Status:    update.Status,
		Timestamp: &ts,
		Notes:     update.Notes,
		UpdatedBy: update.UpdatedBy,
	})
	globalMsg := h.encode(outboundMessage{
		Type:      "global-order-update",
		OrderID:   orderID,
		Status:    update.Status,
		Timestamp: &ts,
		Notes:     update.Notes,
		UpdatedBy: update.UpdatedBy,
	})

	h.mu.RLock()
	defer h.mu.RUnlock()

	h.sendToRoom(trackingRoomPrefix+orderID, trackingMsg)
	h.sendToRoom(legacyOrderRoomPrefix+orderID, legacyMsg)
	for c := range h.clients {
		c.trySend(globalMsg)
	}
}

// PublishReservationUpdate emits an update to the reservation's room
func (h *Hub) PublishReservationUpdate(reservationID string, data interface{}) {
	msg := h.encode(outboundMessage{
		Type: "reservation-update",
		Data: data,
	})

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendToRoom(reservationRoomPrefix+reservationID, msg)
}

// sendToRoom requires h.mu held (read lock is enough)
func (h *Hub) sendToRoom(room string, msg []byte) {
	for c := range h.rooms[room] {
		c.trySend(msg)
	}
}

func (h *Hub) encode(m outboundMessage) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		h.logger.Error("Failed to marshal realtime message", "error", err)
		return nil
	}
	return b
}

// RoomSize returns the current membership count of a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// ClientCount returns the number of live connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects every client
func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}
