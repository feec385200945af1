package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
)

func orderInStatus(status models.OrderStatus) *models.Order {
	order := models.NewOrder("cus-1", models.OrderTypeDelivery)
	order.Status = string(status)
	order.UpdatedAt = time.Date(2023, 12, 25, 18, 0, 0, 0, time.UTC)
	return order
}

func TestEstimateTimeForStatusOffsets(t *testing.T) {
	cases := []struct {
		current models.OrderStatus
		target  models.OrderStatus
		offset  time.Duration
	}{
		{models.OrderStatusReceived, models.OrderStatusPreparing, 5 * time.Minute},
		{models.OrderStatusPreparing, models.OrderStatusReady, 20 * time.Minute},
		{models.OrderStatusReady, models.OrderStatusOutForDelivery, 5 * time.Minute},
		{models.OrderStatusReady, models.OrderStatusReadyForPickup, 5 * time.Minute},
		{models.OrderStatusOutForDelivery, models.OrderStatusCompleted, 15 * time.Minute},
		{models.OrderStatusReadyForPickup, models.OrderStatusCompleted, 15 * time.Minute},
	}

	for _, tc := range cases {
		order := orderInStatus(tc.current)
		estimate := EstimateTimeForStatus(order, string(tc.target))
		assert.Equal(t, order.UpdatedAt.Add(tc.offset), estimate,
			"%s -> %s", tc.current, tc.target)
	}
}

func TestEstimateTimeForStatusNoPredecessorMatch(t *testing.T) {
	// When the current status is not the expected predecessor the
	// last-updated timestamp comes back unchanged.
	order := orderInStatus(models.OrderStatusReceived)
	assert.Equal(t, order.UpdatedAt, EstimateTimeForStatus(order, string(models.OrderStatusCompleted)))

	order = orderInStatus(models.OrderStatusCompleted)
	assert.Equal(t, order.UpdatedAt, EstimateTimeForStatus(order, string(models.OrderStatusPreparing)))

	order = orderInStatus(models.OrderStatusReceived)
	assert.Equal(t, order.UpdatedAt, EstimateTimeForStatus(order, "NOT_A_STATUS"))
}
