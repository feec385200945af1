package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/azizrestaurant/restaurant-platform/pkg/errors"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/internal/repository"
)

// TrackingService is the read side over order status: history, current
// status, tracking lookups and ETA estimation. Its status update entry point
// validates against the status enum before delegating to the shared
// StatusManager.
type TrackingService struct {
	orders  *repository.OrderRepository
	history *repository.StatusHistoryRepository
	status  *StatusManager
	logger  logger.Logger
}

// NewTrackingService creates a TrackingService
func NewTrackingService(
	orders *repository.OrderRepository,
	history *repository.StatusHistoryRepository,
	status *StatusManager,
	logger logger.Logger,
) *TrackingService {
	return &TrackingService{
		orders:  orders,
		history: history,
		status:  status,
		logger:  logger,
	}
}

// CurrentStatus is the tracking projection of an order's present state
type CurrentStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// GetHistory returns the order's status log, ascending by timestamp
func (s *TrackingService) GetHistory(ctx context.Context, orderID string) ([]*models.OrderStatusHistory, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Order %s not found", orderID))
		}
		return nil, apperrors.NewInternalError("Failed to load order")
	}

	history, err := s.history.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load status history")
	}
	return history, nil
}

// GetCurrentStatus returns the order's status and last-updated timestamp
func (s *TrackingService) GetCurrentStatus(ctx context.Context, orderID string) (*CurrentStatus, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Order %s not found", orderID))
		}
		return nil, apperrors.NewInternalError("Failed to load order")
	}

	return &CurrentStatus{
		Status:    order.Status,
		Timestamp: order.UpdatedAt,
	}, nil
}

// GetByTrackingCode returns the full order, items and history included
func (s *TrackingService) GetByTrackingCode(ctx context.Context, trackingID string) (*models.Order, error) {
	order, err := s.orders.GetByTrackingID(ctx, trackingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("No order found for tracking code %s", trackingID))
		}
		return nil, apperrors.NewInternalError("Failed to load order")
	}

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

// UpdateStatus validates newStatus against the known enum and delegates the
// transition to the shared StatusManager.
func (s *TrackingService) UpdateStatus(ctx context.Context, orderID, newStatus, updatedBy, notes string) (*models.Order, error) {
	if !models.IsValidOrderStatus(newStatus) {
		return nil, apperrors.NewInvalidStatusError(fmt.Sprintf("Invalid status: %s", newStatus))
	}
	return s.status.UpdateStatus(ctx, orderID, newStatus, updatedBy, notes)
}

// EstimateTimeForStatus projects when the order will reach targetStatus
func (s *TrackingService) EstimateTimeForStatus(ctx context.Context, orderID, targetStatus string) (time.Time, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return time.Time{}, apperrors.NewNotFoundError(fmt.Sprintf("Order %s not found", orderID))
		}
		return time.Time{}, apperrors.NewInternalError("Failed to load order")
	}
	return EstimateTimeForStatus(order, targetStatus), nil
}

// EstimateTimeForStatus applies the fixed per-transition offset table to the
// order's last-updated timestamp. The offsets are heuristics, not measured
// kitchen times. If the order's current status is not the expected
// predecessor of the target, the last-updated timestamp is returned
// unchanged.
func EstimateTimeForStatus(order *models.Order, targetStatus string) time.Time {
	current := order.Status
	base := order.UpdatedAt

	switch targetStatus {
	case string(models.OrderStatusPreparing):
		if current == string(models.OrderStatusReceived) {
			return base.Add(5 * time.Minute)
		}
	case string(models.OrderStatusReady):
		if current == string(models.OrderStatusPreparing) {
			return base.Add(20 * time.Minute)
		}
	case string(models.OrderStatusOutForDelivery), string(models.OrderStatusReadyForPickup):
		if current == string(models.OrderStatusReady) {
			return base.Add(5 * time.Minute)
		}
	case string(models.OrderStatusCompleted):
		if current == string(models.OrderStatusOutForDelivery) || current == string(models.OrderStatusReadyForPickup) {
			return base.Add(15 * time.Minute)
		}
	}

	return base
}
