package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()

	assert.Len(t, slots, 13)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "21:00", slots[12])

	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1], slots[i])
	}
}

func TestNewReservationAutoConfirmed(t *testing.T) {
	date := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	reservation := NewReservation("cus-1", date, "18:00", 4)

	assert.Equal(t, string(ReservationStatusConfirmed), reservation.Status)
	assert.Equal(t, "18:00", reservation.ReservationTime)
	assert.Equal(t, 4, reservation.PartySize)
	assert.Regexp(t, regexp.MustCompile(`^RES-\d+-\d+$`), reservation.ConfirmationCode)
}

func TestIsValidReservationStatus(t *testing.T) {
	for _, status := range ReservationStatuses {
		assert.True(t, IsValidReservationStatus(string(status)))
	}
	assert.False(t, IsValidReservationStatus("SEATED"))
	assert.False(t, IsValidReservationStatus("confirmed"))
}
