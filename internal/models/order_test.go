package models

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsPickupScenario(t *testing.T) {
	order := NewOrder("cus-1", OrderTypePickup)
	items := []*OrderItem{
		NewOrderItem(order.ID, "mnu-1", 2, 15.99, nil),
	}

	order.ComputeTotals(items)

	assert.Equal(t, 2.56, order.TaxAmount)
	assert.Equal(t, 34.54, order.TotalAmount)
	assert.Equal(t, string(OrderStatusReceived), order.Status)
}

func TestComputeTotalsDeliveryIncludesFee(t *testing.T) {
	order := NewOrder("cus-1", OrderTypeDelivery)
	order.DeliveryFee = 4.50
	items := []*OrderItem{
		NewOrderItem(order.ID, "mnu-1", 1, 10.00, nil),
		NewOrderItem(order.ID, "mnu-2", 3, 5.00, nil),
	}

	order.ComputeTotals(items)

	// subtotal 25.00 + fee 4.50 = 29.50; tax 2.36; total 31.86
	assert.Equal(t, 2.36, order.TaxAmount)
	assert.Equal(t, 31.86, order.TotalAmount)
}

func TestComputeTotalsIgnoresFeeForPickup(t *testing.T) {
	order := NewOrder("cus-1", OrderTypePickup)
	order.DeliveryFee = 4.50
	items := []*OrderItem{NewOrderItem(order.ID, "mnu-1", 1, 10.00, nil)}

	order.ComputeTotals(items)

	assert.Equal(t, 0.80, order.TaxAmount)
	assert.Equal(t, 10.80, order.TotalAmount)
}

func TestComputeTotalsIdempotent(t *testing.T) {
	order := NewOrder("cus-1", OrderTypeDelivery)
	order.DeliveryFee = 3.25
	items := []*OrderItem{
		NewOrderItem(order.ID, "mnu-1", 2, 12.49, nil),
		NewOrderItem(order.ID, "mnu-2", 1, 7.99, nil),
	}

	order.ComputeTotals(items)
	firstTax, firstTotal := order.TaxAmount, order.TotalAmount

	for i := 0; i < 5; i++ {
		order.ComputeTotals(items)
	}

	assert.Equal(t, firstTax, order.TaxAmount)
	assert.Equal(t, firstTotal, order.TotalAmount)
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	order := NewOrder("cus-1", OrderTypePickup)
	order.ComputeTotals(nil)

	assert.Zero(t, order.TaxAmount)
	assert.Zero(t, order.TotalAmount)
}

func TestTrackingIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d+-\d+$`)
	for i := 0; i < 10; i++ {
		assert.Regexp(t, pattern, GenerateTrackingID())
	}
}

func TestNewOrderDefaults(t *testing.T) {
	order := NewOrder("cus-1", OrderTypeDineIn)

	require.NotEmpty(t, order.ID)
	assert.Equal(t, string(OrderStatusReceived), order.Status)
	assert.Equal(t, string(OrderTypeDineIn), order.OrderType)
	assert.NotEmpty(t, order.TrackingID)
}

func TestNewStatusHistoryDefaults(t *testing.T) {
	record := NewStatusHistory("ord-1", "PREPARING", "", "")

	assert.Equal(t, "Status updated to PREPARING", record.Notes)
	assert.Equal(t, "system", record.UpdatedBy)

	custom := NewStatusHistory("ord-1", "READY", "plated", "chef")
	assert.Equal(t, "plated", custom.Notes)
	assert.Equal(t, "chef", custom.UpdatedBy)
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, status := range OrderStatuses {
		assert.True(t, IsValidOrderStatus(string(status)))
	}
	assert.False(t, IsValidOrderStatus("SHIPPED"))
	assert.False(t, IsValidOrderStatus("received"))
	assert.False(t, IsValidOrderStatus(""))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 34.54, Round2(34.5384))
	assert.Equal(t, 2.56, Round2(2.5584))
	assert.Equal(t, 10.0, Round2(10.004))
	assert.Equal(t, 10.01, Round2(10.006))
}
