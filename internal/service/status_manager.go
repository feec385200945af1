package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/azizrestaurant/restaurant-platform/pkg/errors"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/internal/notifier"
	"github.com/azizrestaurant/restaurant-platform/internal/realtime"
	"github.com/azizrestaurant/restaurant-platform/internal/repository"
)

// Broadcaster publishes order status changes to live subscribers. The hub
// satisfies it; tests inject a recorder.
type Broadcaster interface {
	PublishOrderStatus(orderID string, update realtime.StatusUpdate)
	PublishReservationUpdate(reservationID string, data interface{})
}

// TransitionStore persists order status transitions. ApplyTransition must
// land the order's status column and the history row atomically.
type TransitionStore interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ApplyTransition(ctx context.Context, record *models.OrderStatusHistory) error
}

// CustomerStore resolves the customer a notification is addressed to
type CustomerStore interface {
	GetByID(ctx context.Context, id string) (*models.Customer, error)
}

// repoTransitionStore runs transitions against the order and history
// repositories in one transaction.
type repoTransitionStore struct {
	orders  *repository.OrderRepository
	history *repository.StatusHistoryRepository
}

func (s *repoTransitionStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *repoTransitionStore) ApplyTransition(ctx context.Context, record *models.OrderStatusHistory) error {
	tx, err := s.orders.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.orders.UpdateStatusInTx(tx, record.OrderID, record.Status); err != nil {
		return err
	}
	if err := s.history.AppendInTx(tx, record); err != nil {
		return err
	}
	return tx.Commit()
}

// StatusManager is the single owner of order status transitions. Both the
// order-facing and tracking-facing entry points delegate here, so every
// transition follows the same path: persist the status and its history row
// in one transaction, publish to live subscribers, then notify the customer
// as a detached task.
type StatusManager struct {
	store       TransitionStore
	customers   CustomerStore
	broadcaster Broadcaster
	dispatcher  notifier.Dispatcher
	logger      logger.Logger
}

// NewStatusManager creates a StatusManager over the order and history
// repositories.
func NewStatusManager(
	orders *repository.OrderRepository,
	history *repository.StatusHistoryRepository,
	customers *repository.CustomerRepository,
	broadcaster Broadcaster,
	dispatcher notifier.Dispatcher,
	logger logger.Logger,
) *StatusManager {
	return &StatusManager{
		store:       &repoTransitionStore{orders: orders, history: history},
		customers:   customers,
		broadcaster: broadcaster,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// UpdateStatus transitions an order to newStatus. Exactly one history row is
// appended per call, atomically with the status column update. The broadcast
// happens after commit, synchronously with this call; the customer
// notification is dispatched without waiting.
//
// Status values are not checked against the enum here. The tracking entry
// point validates before delegating; the order entry point deliberately does
// not.
func (m *StatusManager) UpdateStatus(ctx context.Context, orderID, newStatus, updatedBy, notes string) (*models.Order, error) {
	order, err := m.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Order %s not found", orderID))
		}
		return nil, apperrors.NewInternalError("Failed to load order")
	}

	record := models.NewStatusHistory(orderID, newStatus, notes, updatedBy)

	if err := m.store.ApplyTransition(ctx, record); err != nil {
		m.logger.Error("Failed to persist status transition", "error", err, "orderID", orderID)
		return nil, apperrors.NewInternalError("Failed to update order status")
	}

	order.Status = newStatus
	order.UpdatedAt = record.Timestamp

	m.logger.Info("Order status updated",
		"orderID", orderID, "status", newStatus, "updatedBy", record.UpdatedBy)

	m.broadcaster.PublishOrderStatus(orderID, realtime.StatusUpdate{
		OrderID:   orderID,
		Status:    newStatus,
		Timestamp: record.Timestamp,
		Notes:     record.Notes,
		UpdatedBy: record.UpdatedBy,
	})

	m.notifyCustomer(order, newStatus)

	return order, nil
}

// notifyCustomer dispatches the status update email. A missing customer is
// logged and skipped; the transition has already succeeded.
func (m *StatusManager) notifyCustomer(order *models.Order, newStatus string) {
	customer, err := m.customers.GetByID(context.Background(), order.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			m.logger.Warn("Customer not found, skipping status notification",
				"orderID", order.ID, "customerID", order.CustomerID)
		} else {
			m.logger.Error("Failed to load customer for status notification",
				"error", err, "orderID", order.ID)
		}
		return
	}

	m.dispatcher.DispatchOrderStatusUpdate(order, newStatus, customer)
}
