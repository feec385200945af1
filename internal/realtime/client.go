package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 16
)

// joinMessage is the inbound subscription protocol:
// {type: "join-order-room"|"join-reservation-room", orderId|reservationId}
type joinMessage struct {
	Type          string `json:"type"`
	OrderID       string `json:"orderId,omitempty"`
	ReservationID string `json:"reservationId,omitempty"`
}

// Client is one live WebSocket connection. A client may belong to any number
// of rooms at once.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// rooms is owned by the hub and mutated only under its lock
	rooms map[string]bool
}

// NewClient registers a new connection with the hub. The caller must start
// the pumps with Run.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[string]bool),
	}
	hub.register(c)
	return c
}

// Run starts the read and write pumps. Blocks until the connection drops.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// Close tears down the connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// trySend queues a message without blocking. A client whose buffer is full
// misses the message; it is expected to re-fetch current state on demand.
func (c *Client) trySend(msg []byte) {
	if msg == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg joinMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.logger.Warn("Ignoring malformed realtime message", "error", err)
			continue
		}

		switch msg.Type {
		case "join-order-room":
			if msg.OrderID != "" {
				c.hub.JoinOrderRoom(c, msg.OrderID)
			}
		case "join-reservation-room":
			if msg.ReservationID != "" {
				c.hub.JoinReservationRoom(c, msg.ReservationID)
			}
		case "leave-order-room":
			if msg.OrderID != "" {
				c.hub.LeaveOrderRoom(c, msg.OrderID)
			}
		case "leave-reservation-room":
			if msg.ReservationID != "" {
				c.hub.LeaveReservationRoom(c, msg.ReservationID)
			}
		default:
			c.hub.logger.Debug("Unknown realtime message type", "type", msg.Type)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
