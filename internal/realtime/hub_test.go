package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

func newTestHub() *Hub {
	return NewHub(logger.New("error"))
}

func drain(t *testing.T, c *Client) []map[string]interface{} {
	t.Helper()
	var messages []map[string]interface{}
	for {
		select {
		case raw := <-c.send:
			var msg map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &msg))
			messages = append(messages, msg)
		default:
			return messages
		}
	}
}

func TestPublishOrderStatusFanOut(t *testing.T) {
	hub := newTestHub()
	subscriber := NewClient(hub, nil)
	bystander := NewClient(hub, nil)

	hub.JoinOrderRoom(subscriber, "ord-1")

	hub.PublishOrderStatus("ord-1", StatusUpdate{
		OrderID:   "ord-1",
		Status:    "PREPARING",
		Timestamp: time.Now().UTC(),
		Notes:     "Status updated to PREPARING",
		UpdatedBy: "system",
	})

	subMsgs := drain(t, subscriber)
	// tracking room + legacy room + global feed
	require.Len(t, subMsgs, 3)

	types := map[string]int{}
	for _, msg := range subMsgs {
		types[msg["type"].(string)]++
		assert.Equal(t, "PREPARING", msg["status"])
	}
	assert.Equal(t, 2, types["order-status-update"])
	assert.Equal(t, 1, types["global-order-update"])

	// A connection that joined nothing still receives the global feed.
	byMsgs := drain(t, bystander)
	require.Len(t, byMsgs, 1)
	assert.Equal(t, "global-order-update", byMsgs[0]["type"])
	assert.Equal(t, "ord-1", byMsgs[0]["orderId"])
}

func TestPublishToUnrelatedOrderRoom(t *testing.T) {
	hub := newTestHub()
	subscriber := NewClient(hub, nil)
	hub.JoinOrderRoom(subscriber, "ord-1")

	hub.PublishOrderStatus("ord-2", StatusUpdate{Status: "READY", Timestamp: time.Now()})

	// Only the global feed reaches a client subscribed to another order.
	msgs := drain(t, subscriber)
	require.Len(t, msgs, 1)
	assert.Equal(t, "global-order-update", msgs[0]["type"])
}

func TestJoinAndLeaveOrderRoom(t *testing.T) {
	hub := newTestHub()
	client := NewClient(hub, nil)

	hub.JoinOrderRoom(client, "ord-1")
	assert.Equal(t, 1, hub.RoomSize("tracking-ord-1"))
	assert.Equal(t, 1, hub.RoomSize("order-ord-1"))

	hub.LeaveOrderRoom(client, "ord-1")
	assert.Zero(t, hub.RoomSize("tracking-ord-1"))
	assert.Zero(t, hub.RoomSize("order-ord-1"))
}

func TestUnregisterCleansUpRooms(t *testing.T) {
	hub := newTestHub()
	client := NewClient(hub, nil)

	hub.JoinOrderRoom(client, "ord-1")
	hub.JoinReservationRoom(client, "res-1")
	require.Equal(t, 1, hub.ClientCount())

	hub.unregister(client)

	assert.Zero(t, hub.ClientCount())
	assert.Zero(t, hub.RoomSize("tracking-ord-1"))
	assert.Zero(t, hub.RoomSize("reservation-res-1"))

	// A second unregister of the same client is a no-op.
	hub.unregister(client)
	assert.Zero(t, hub.ClientCount())
}

func TestPublishReservationUpdate(t *testing.T) {
	hub := newTestHub()
	client := NewClient(hub, nil)
	hub.JoinReservationRoom(client, "res-1")

	hub.PublishReservationUpdate("res-1", map[string]string{"status": "CANCELLED"})

	msgs := drain(t, client)
	require.Len(t, msgs, 1)
	assert.Equal(t, "reservation-update", msgs[0]["type"])

	data := msgs[0]["data"].(map[string]interface{})
	assert.Equal(t, "CANCELLED", data["status"])
}

func TestPublishWithNoSubscribersIsNoOp(t *testing.T) {
	hub := newTestHub()
	hub.PublishOrderStatus("ord-1", StatusUpdate{Status: "READY", Timestamp: time.Now()})
}

func TestSlowClientMissesMessages(t *testing.T) {
	hub := newTestHub()
	client := NewClient(hub, nil)
	hub.JoinOrderRoom(client, "ord-1")

	// Overflow the send buffer; excess messages are dropped, not queued.
	for i := 0; i < sendBufferSize*2; i++ {
		hub.PublishOrderStatus("ord-1", StatusUpdate{Status: "PREPARING", Timestamp: time.Now()})
	}

	assert.Len(t, drain(t, client), sendBufferSize)
}
