package notifier

import (
	"time"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
)

// EventType identifies the notification to render
type EventType string

const (
	EventOrderConfirmation       EventType = "order_confirmation"
	EventOrderStatusUpdate       EventType = "order_status_update"
	EventReservationConfirmation EventType = "reservation_confirmation"
)

// Recipient is the customer an email is addressed to
type Recipient struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// OrderPayload carries the order fields the templates need, snapshotted at
// dispatch time so the consumer never reads the database.
type OrderPayload struct {
	TrackingID          string                  `json:"trackingId"`
	OrderType           string                  `json:"orderType"`
	Status              string                  `json:"status"`
	TotalAmount         float64                 `json:"totalAmount"`
	DeliveryAddress     *models.DeliveryAddress `json:"deliveryAddress,omitempty"`
	SpecialInstructions *string                 `json:"specialInstructions,omitempty"`
}

// ReservationPayload carries the reservation fields the templates need
type ReservationPayload struct {
	ConfirmationCode string  `json:"confirmationCode"`
	Date             string  `json:"date"`
	Time             string  `json:"time"`
	PartySize        int     `json:"partySize"`
	SpecialRequests  *string `json:"specialRequests,omitempty"`
}

// Event is the message published to the notifications topic
type Event struct {
	Type        EventType           `json:"type"`
	Recipient   Recipient           `json:"recipient"`
	Order       *OrderPayload       `json:"order,omitempty"`
	Reservation *ReservationPayload `json:"reservation,omitempty"`
	NewStatus   string              `json:"newStatus,omitempty"`
	OccurredAt  time.Time           `json:"occurredAt"`
}

func newRecipient(customer *models.Customer) Recipient {
	return Recipient{
		Email:     customer.Email,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
	}
}

func newOrderPayload(order *models.Order) *OrderPayload {
	return &OrderPayload{
		TrackingID:          order.TrackingID,
		OrderType:           order.OrderType,
		Status:              order.Status,
		TotalAmount:         order.TotalAmount,
		DeliveryAddress:     order.DeliveryAddress,
		SpecialInstructions: order.SpecialInstructions,
	}
}

func newReservationPayload(reservation *models.Reservation) *ReservationPayload {
	return &ReservationPayload{
		ConfirmationCode: reservation.ConfirmationCode,
		Date:             reservation.ReservationDate.Format("2006-01-02"),
		Time:             reservation.ReservationTime,
		PartySize:        reservation.PartySize,
		SpecialRequests:  reservation.SpecialRequests,
	}
}
