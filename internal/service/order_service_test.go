package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/azizrestaurant/restaurant-platform/pkg/errors"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
)

func TestRequireDeliveryAddress(t *testing.T) {
	address := &models.DeliveryAddress{
		Street: "1 Main St", City: "Portland", State: "OR", ZipCode: "97201", Country: "US",
	}

	// Delivery without an address is rejected on both the create and the
	// patch path; the check is shared between them.
	err := requireDeliveryAddress(string(models.OrderTypeDelivery), nil)
	assert.Error(t, err)
	assert.Equal(t, 400, apperrors.StatusCode(err))

	assert.NoError(t, requireDeliveryAddress(string(models.OrderTypeDelivery), address))

	// Non-delivery orders never need an address.
	assert.NoError(t, requireDeliveryAddress(string(models.OrderTypePickup), nil))
	assert.NoError(t, requireDeliveryAddress(string(models.OrderTypeDineIn), nil))
}
