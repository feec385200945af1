package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEvent(eventType EventType) Event {
	return Event{
		Type: eventType,
		Recipient: Recipient{
			Email:     "amira@example.com",
			FirstName: "Amira",
			LastName:  "Hassan",
		},
		OccurredAt: time.Now().UTC(),
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	event := baseEvent(EventOrderConfirmation)
	event.Order = &OrderPayload{
		TrackingID:  "ORD-1703527200000-123456",
		OrderType:   "PICKUP",
		Status:      "RECEIVED",
		TotalAmount: 34.54,
	}

	subject, body, err := renderEmail(&event)
	require.NoError(t, err)

	assert.Equal(t, "Order Confirmation - ORD-1703527200000-123456", subject)
	assert.Contains(t, body, "Amira")
	assert.Contains(t, body, "ORD-1703527200000-123456")
	assert.Contains(t, body, "$34.54")
	assert.NotContains(t, body, "Delivering to")
}

func TestRenderOrderStatusUpdate(t *testing.T) {
	event := baseEvent(EventOrderStatusUpdate)
	event.Order = &OrderPayload{TrackingID: "ORD-1-1", Status: "RECEIVED"}
	event.NewStatus = "OUT_FOR_DELIVERY"

	subject, body, err := renderEmail(&event)
	require.NoError(t, err)

	assert.Equal(t, "Order Update - ORD-1-1", subject)
	assert.Contains(t, body, "out for delivery")
	assert.Contains(t, body, "OUT_FOR_DELIVERY")
}

func TestRenderStatusUpdateUnknownStatusFallsBack(t *testing.T) {
	event := baseEvent(EventOrderStatusUpdate)
	event.Order = &OrderPayload{TrackingID: "ORD-1-1"}
	event.NewStatus = "MYSTERY"

	_, body, err := renderEmail(&event)
	require.NoError(t, err)
	assert.Contains(t, body, "Your order status is now MYSTERY.")
}

func TestRenderReservationConfirmation(t *testing.T) {
	event := baseEvent(EventReservationConfirmation)
	event.Reservation = &ReservationPayload{
		ConfirmationCode: "RES-1703527200000-1234",
		Date:             "2023-12-25",
		Time:             "18:00",
		PartySize:        4,
	}

	subject, body, err := renderEmail(&event)
	require.NoError(t, err)

	assert.Equal(t, "Reservation Confirmed - RES-1703527200000-1234", subject)
	assert.Contains(t, body, "2023-12-25")
	assert.Contains(t, body, "18:00")
	assert.Contains(t, body, "4")
}

func TestRenderRejectsMalformedEvents(t *testing.T) {
	event := baseEvent(EventOrderConfirmation)
	_, _, err := renderEmail(&event)
	assert.Error(t, err, "confirmation without order payload")

	event = baseEvent("unknown_type")
	_, _, err = renderEmail(&event)
	assert.Error(t, err)
}
