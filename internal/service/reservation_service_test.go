package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
)

func slotWith(partySizes ...int) []*models.Reservation {
	date := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	reservations := make([]*models.Reservation, 0, len(partySizes))
	for _, size := range partySizes {
		reservations = append(reservations, models.NewReservation("cus-1", date, "18:00", size))
	}
	return reservations
}

func TestSlotConflicts(t *testing.T) {
	assert.False(t, SlotConflicts(nil, 4), "empty slot never conflicts")

	// The creation window is generous: any existing party of at most
	// requested+20 blocks the slot, so party sizes in the 1..20 range
	// always collide.
	assert.True(t, SlotConflicts(slotWith(6), 6))
	assert.True(t, SlotConflicts(slotWith(2), 4))
	assert.True(t, SlotConflicts(slotWith(20), 1))

	// Only an existing reservation larger than requested+20 escapes the
	// window.
	assert.False(t, SlotConflicts(slotWith(25), 4))
}

func TestSlotClaimed(t *testing.T) {
	assert.False(t, SlotClaimed(nil, 4))

	// Claimed only when an existing party is at least as large as the
	// requested one.
	assert.True(t, SlotClaimed(slotWith(6), 4))
	assert.True(t, SlotClaimed(slotWith(4), 4))
	assert.False(t, SlotClaimed(slotWith(2, 3), 4))
	assert.True(t, SlotClaimed(slotWith(2, 8), 4))
}

func TestExcludeReservation(t *testing.T) {
	existing := slotWith(4, 6)
	moved := existing[0]

	others := ExcludeReservation(existing, moved.ID)
	assert.Len(t, others, 1)
	assert.Equal(t, existing[1].ID, others[0].ID)

	// A reservation staying in its own slot must not conflict with itself,
	// but still conflicts with anyone else there.
	alone := slotWith(4)
	assert.False(t, SlotConflicts(ExcludeReservation(alone, alone[0].ID), 6))
	assert.True(t, SlotConflicts(ExcludeReservation(existing, moved.ID), 6))

	// An ID not present leaves the set untouched.
	assert.Len(t, ExcludeReservation(existing, "res-unknown"), 2)
}

func TestConflictAndAvailabilityPredicatesDiffer(t *testing.T) {
	// A slot holding a party of 2 still reads as available for 4 guests,
	// yet creation for 4 is rejected. Both behaviors are intentional.
	existing := slotWith(2)

	assert.False(t, SlotClaimed(existing, 4))
	assert.True(t, SlotConflicts(existing, 4))
}
