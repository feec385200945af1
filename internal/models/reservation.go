package models

import (
	"fmt"
	"time"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusNoShow    ReservationStatus = "NO_SHOW"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
)

// ReservationStatuses lists every recognized reservation status
var ReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCancelled,
	ReservationStatusNoShow,
	ReservationStatusCompleted,
}

// IsValidReservationStatus reports whether s is a recognized reservation status
func IsValidReservationStatus(s string) bool {
	for _, valid := range ReservationStatuses {
		if s == string(valid) {
			return true
		}
	}
	return false
}

// Reservation represents a table reservation. ReservationTime is a 24h
// "HH:MM" time-of-day string; slot matching is exact-string.
type Reservation struct {
	ID               string    `db:"id" json:"id"`
	CustomerID       string    `db:"customer_id" json:"customerId"`
	ReservationDate  time.Time `db:"reservation_date" json:"reservationDate"`
	ReservationTime  string    `db:"reservation_time" json:"reservationTime"`
	PartySize        int       `db:"party_size" json:"partySize"`
	Status           string    `db:"status" json:"status"`
	ConfirmationCode string    `db:"confirmation_code" json:"confirmationCode"`
	SpecialRequests  *string   `db:"special_requests" json:"specialRequests,omitempty"`
	TableNumber      *string   `db:"table_number" json:"tableNumber,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// NewReservation creates a reservation with a fresh confirmation code.
// Reservations created through the public path are auto-confirmed; the
// PENDING state exists only for records written through other channels.
func NewReservation(customerID string, date time.Time, timeOfDay string, partySize int) *Reservation {
	now := GetCurrentTime()

	return &Reservation{
		ID:               GenerateID("res"),
		CustomerID:       customerID,
		ReservationDate:  date,
		ReservationTime:  timeOfDay,
		PartySize:        partySize,
		Status:           string(ReservationStatusConfirmed),
		ConfirmationCode: GenerateConfirmationCode(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// TimeSlots returns the canonical hourly reservation slots, 09:00 through
// 21:00 inclusive, ascending.
func TimeSlots() []string {
	slots := make([]string, 0, 13)
	for hour := 9; hour <= 21; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
	}
	return slots
}
