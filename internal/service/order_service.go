package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/azizrestaurant/restaurant-platform/pkg/errors"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/internal/notifier"
	"github.com/azizrestaurant/restaurant-platform/internal/repository"
)

// OrderService owns order creation, pricing, item mutation and the
// order-facing status update path.
type OrderService struct {
	orders     *repository.OrderRepository
	history    *repository.StatusHistoryRepository
	customers  *repository.CustomerRepository
	status     *StatusManager
	dispatcher notifier.Dispatcher
	logger     logger.Logger
}

// NewOrderService creates an OrderService
func NewOrderService(
	orders *repository.OrderRepository,
	history *repository.StatusHistoryRepository,
	customers *repository.CustomerRepository,
	status *StatusManager,
	dispatcher notifier.Dispatcher,
	logger logger.Logger,
) *OrderService {
	return &OrderService{
		orders:     orders,
		history:    history,
		customers:  customers,
		status:     status,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// OrderItemInput is one requested line item. UnitPrice is the price quoted
// to the customer and is snapshotted as-is.
type OrderItemInput struct {
	MenuItemID   string  `json:"menuItemId" validate:"required"`
	Quantity     int     `json:"quantity" validate:"required,min=1"`
	UnitPrice    float64 `json:"unitPrice" validate:"required,gt=0"`
	Instructions *string `json:"instructions,omitempty"`
}

// CreateOrderInput is the payload for order creation
type CreateOrderInput struct {
	CustomerID          string                  `json:"customerId" validate:"required"`
	OrderType           string                  `json:"orderType" validate:"required,oneof=DELIVERY PICKUP DINE_IN"`
	Items               []OrderItemInput        `json:"items" validate:"required,min=1,dive"`
	DeliveryFee         float64                 `json:"deliveryFee" validate:"gte=0"`
	DeliveryAddress     *models.DeliveryAddress `json:"deliveryAddress,omitempty"`
	SpecialInstructions *string                 `json:"specialInstructions,omitempty"`
}

// requireDeliveryAddress rejects delivery orders that carry no address.
// Create and Update both enforce this, so a patch cannot produce a state
// creation would have refused.
func requireDeliveryAddress(orderType string, address *models.DeliveryAddress) error {
	if orderType == string(models.OrderTypeDelivery) && address == nil {
		return apperrors.NewValidationError("Delivery orders require a delivery address")
	}
	return nil
}

// Create persists a new order and its items atomically, computes totals from
// the item set, and dispatches a confirmation email as a detached task. A
// customer record that cannot be found does not fail creation; the
// notification is skipped with a warning.
func (s *OrderService) Create(ctx context.Context, input *CreateOrderInput) (*models.Order, error) {
	if err := requireDeliveryAddress(input.OrderType, input.DeliveryAddress); err != nil {
		return nil, err
	}

	order := models.NewOrder(input.CustomerID, models.OrderType(input.OrderType))
	order.DeliveryFee = input.DeliveryFee
	order.DeliveryAddress = input.DeliveryAddress
	order.SpecialInstructions = input.SpecialInstructions

	items := make([]*models.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, models.NewOrderItem(order.ID, in.MenuItemID, in.Quantity, in.UnitPrice, in.Instructions))
	}
	order.ComputeTotals(items)

	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to begin transaction")
	}
	defer tx.Rollback()

	if err := s.orders.CreateInTx(tx, order); err != nil {
		return nil, apperrors.NewInternalError("Failed to create order")
	}
	for _, item := range items {
		if err := s.orders.CreateItemInTx(tx, item); err != nil {
			return nil, apperrors.NewInternalError("Failed to create order item")
		}
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("Failed to commit order creation", "error", err, "orderID", order.ID)
		return nil, apperrors.NewInternalError("Failed to commit order creation")
	}
	order.Items = items

	s.logger.Info("Order created",
		"orderID", order.ID, "trackingID", order.TrackingID, "total", order.TotalAmount)

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Customer not found, skipping order confirmation",
				"orderID", order.ID, "customerID", input.CustomerID)
		} else {
			s.logger.Error("Failed to load customer for order confirmation",
				"error", err, "orderID", order.ID)
		}
		return order, nil
	}
	s.dispatcher.DispatchOrderConfirmation(order, customer)

	return order, nil
}

// GetByID returns the full order with items and history
func (s *OrderService) GetByID(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Order %s not found", id))
		}
		return nil, apperrors.NewInternalError("Failed to load order")
	}
	return s.attach(ctx, order)
}

// GetByTrackingID returns the full order matching the tracking code
func (s *OrderService) GetByTrackingID(ctx context.Context, trackingID string) (*models.Order, error) {
	order, err := s.orders.GetByTrackingID(ctx, trackingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("No order found for tracking code %s", trackingID))
		}
		return nil, apperrors.NewInternalError("Failed to load order")
	}
	return s.attach(ctx, order)
}

// GetByCustomerID returns a customer's orders with their items, newest first
func (s *OrderService) GetByCustomerID(ctx context.Context, customerID string) ([]*models.Order, error) {
	orders, err := s.orders.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load orders")
	}
	for _, order := range orders {
		items, err := s.orders.GetItems(ctx, order.ID)
		if err != nil {
			return nil, apperrors.NewInternalError("Failed to load order items")
		}
		order.Items = items
	}
	return orders, nil
}

// GetAll returns a page of orders, newest first
func (s *OrderService) GetAll(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	orders, err := s.orders.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load orders")
	}
	return orders, nil
}

// UpdateOrderInput is the patch payload for order updates
type UpdateOrderInput struct {
	OrderType           *string                 `json:"orderType,omitempty" validate:"omitempty,oneof=DELIVERY PICKUP DINE_IN"`
	DeliveryFee         *float64                `json:"deliveryFee,omitempty" validate:"omitempty,gte=0"`
	DeliveryAddress     *models.DeliveryAddress `json:"deliveryAddress,omitempty"`
	SpecialInstructions *string                 `json:"specialInstructions,omitempty"`
}

// Update applies a field patch. A change to order type or delivery fee
// recomputes totals from the current item set.
func (s *OrderService) Update(ctx context.Context, id string, input *UpdateOrderInput) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Order %s not found", id))
		}
		return nil, apperrors.NewInternalError("Failed to load order")
	}

	if input.OrderType != nil {
		order.OrderType = *input.OrderType
	}
	if input.DeliveryFee != nil {
		order.DeliveryFee = *input.DeliveryFee
	}
	if input.DeliveryAddress != nil {
		order.DeliveryAddress = input.DeliveryAddress
	}
	if input.SpecialInstructions != nil {
		order.SpecialInstructions = input.SpecialInstructions
	}

	if err := requireDeliveryAddress(order.OrderType, order.DeliveryAddress); err != nil {
		return nil, err
	}

	items, err := s.orders.GetItems(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load order items")
	}
	order.ComputeTotals(items)

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, apperrors.NewInternalError("Failed to update order")
	}
	order.Items = items
	return order, nil
}

// UpdateStatus transitions the order through the shared status manager.
// This path accepts any status string.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status, updatedBy, notes string) (*models.Order, error) {
	return s.status.UpdateStatus(ctx, orderID, status, updatedBy, notes)
}

// AddItem appends a line item and recomputes totals from the full item set
func (s *OrderService) AddItem(ctx context.Context, orderID string, input *OrderItemInput) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Order %s not found", orderID))
		}
		return nil, apperrors.NewInternalError("Failed to load order")
	}

	item := models.NewOrderItem(orderID, input.MenuItemID, input.Quantity, input.UnitPrice, input.Instructions)
	if err := s.orders.AddItem(ctx, item); err != nil {
		return nil, apperrors.NewInternalError("Failed to add order item")
	}

	return s.recomputeTotals(ctx, order)
}

// RemoveItem deletes a line item and recomputes totals from the remaining set
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Order %s not found", orderID))
		}
		return nil, apperrors.NewInternalError("Failed to load order")
	}

	item, err := s.orders.GetItem(ctx, itemID)
	if err != nil || item.OrderID != orderID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Item %s not found on order %s", itemID, orderID))
	}

	if err := s.orders.RemoveItem(ctx, itemID); err != nil {
		return nil, apperrors.NewInternalError("Failed to remove order item")
	}

	return s.recomputeTotals(ctx, order)
}

// recomputeTotals rebuilds totals from the order's current item set. The
// recomputation starts from the items, never from the stored totals, so
// repeated runs cannot drift.
func (s *OrderService) recomputeTotals(ctx context.Context, order *models.Order) (*models.Order, error) {
	items, err := s.orders.GetItems(ctx, order.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load order items")
	}

	order.ComputeTotals(items)
	if err := s.orders.UpdateTotals(ctx, order.ID, order.TotalAmount, order.TaxAmount); err != nil {
		return nil, apperrors.NewInternalError("Failed to update order totals")
	}

	order.Items = items
	return order, nil
}

func (s *OrderService) attach(ctx context.Context, order *models.Order) (*models.Order, error) {
	items, err := s.orders.GetItems(ctx, order.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load order items")
	}
	history, err := s.history.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load status history")
	}

	order.Items = items
	order.History = history
	return order, nil
}
