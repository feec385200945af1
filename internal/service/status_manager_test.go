package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/azizrestaurant/restaurant-platform/pkg/errors"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/internal/realtime"
	"github.com/azizrestaurant/restaurant-platform/internal/repository"
)

type fakeTransitionStore struct {
	orders      map[string]*models.Order
	transitions []*models.OrderStatusHistory
	applyErr    error
}

func (f *fakeTransitionStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeTransitionStore) ApplyTransition(ctx context.Context, record *models.OrderStatusHistory) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.transitions = append(f.transitions, record)
	return nil
}

type fakeCustomerStore struct {
	customers map[string]*models.Customer
}

func (f *fakeCustomerStore) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return customer, nil
}

type broadcastRecorder struct {
	orderUpdates       []realtime.StatusUpdate
	reservationUpdates []string
}

func (r *broadcastRecorder) PublishOrderStatus(orderID string, update realtime.StatusUpdate) {
	r.orderUpdates = append(r.orderUpdates, update)
}

func (r *broadcastRecorder) PublishReservationUpdate(reservationID string, data interface{}) {
	r.reservationUpdates = append(r.reservationUpdates, reservationID)
}

type dispatchRecorder struct {
	statusUpdates []string
	recipients    []string
}

func (r *dispatchRecorder) DispatchOrderConfirmation(order *models.Order, customer *models.Customer) {
}

func (r *dispatchRecorder) DispatchOrderStatusUpdate(order *models.Order, newStatus string, customer *models.Customer) {
	r.statusUpdates = append(r.statusUpdates, newStatus)
	r.recipients = append(r.recipients, customer.Email)
}

func (r *dispatchRecorder) DispatchReservationConfirmation(reservation *models.Reservation, customer *models.Customer) {
}

type statusManagerFixture struct {
	manager    *StatusManager
	store      *fakeTransitionStore
	broadcasts *broadcastRecorder
	dispatches *dispatchRecorder
	order      *models.Order
}

func newStatusManagerFixture() *statusManagerFixture {
	order := models.NewOrder("cus-1", models.OrderTypePickup)
	store := &fakeTransitionStore{orders: map[string]*models.Order{order.ID: order}}
	customers := &fakeCustomerStore{customers: map[string]*models.Customer{
		"cus-1": models.NewCustomer("jordan@example.com", "Jordan", "Lee", nil),
	}}
	broadcasts := &broadcastRecorder{}
	dispatches := &dispatchRecorder{}

	manager := &StatusManager{
		store:       store,
		customers:   customers,
		broadcaster: broadcasts,
		dispatcher:  dispatches,
		logger:      logger.New("error"),
	}

	return &statusManagerFixture{
		manager:    manager,
		store:      store,
		broadcasts: broadcasts,
		dispatches: dispatches,
		order:      order,
	}
}

func TestStatusManagerUpdateStatus(t *testing.T) {
	fx := newStatusManagerFixture()

	updated, err := fx.manager.UpdateStatus(context.Background(), fx.order.ID, string(models.OrderStatusPreparing), "", "")
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusPreparing), updated.Status)

	// Exactly one history row per call, with defaults applied.
	require.Len(t, fx.store.transitions, 1)
	record := fx.store.transitions[0]
	assert.Equal(t, fx.order.ID, record.OrderID)
	assert.Equal(t, string(models.OrderStatusPreparing), record.Status)
	assert.Equal(t, "Status updated to PREPARING", record.Notes)
	assert.Equal(t, "system", record.UpdatedBy)

	// Exactly one broadcast, carrying the persisted record's fields.
	require.Len(t, fx.broadcasts.orderUpdates, 1)
	update := fx.broadcasts.orderUpdates[0]
	assert.Equal(t, fx.order.ID, update.OrderID)
	assert.Equal(t, string(models.OrderStatusPreparing), update.Status)
	assert.Equal(t, record.Timestamp, update.Timestamp)
	assert.Equal(t, record.Notes, update.Notes)
	assert.Equal(t, record.UpdatedBy, update.UpdatedBy)

	// The customer notification goes out once, addressed to the customer.
	assert.Equal(t, []string{string(models.OrderStatusPreparing)}, fx.dispatches.statusUpdates)
	assert.Equal(t, []string{"jordan@example.com"}, fx.dispatches.recipients)
}

func TestStatusManagerAppendsOneRowPerCall(t *testing.T) {
	fx := newStatusManagerFixture()
	ctx := context.Background()

	_, err := fx.manager.UpdateStatus(ctx, fx.order.ID, string(models.OrderStatusPreparing), "kitchen", "")
	require.NoError(t, err)
	_, err = fx.manager.UpdateStatus(ctx, fx.order.ID, string(models.OrderStatusReady), "kitchen", "Window 3")
	require.NoError(t, err)

	require.Len(t, fx.store.transitions, 2)
	assert.Equal(t, string(models.OrderStatusPreparing), fx.store.transitions[0].Status)
	assert.Equal(t, string(models.OrderStatusReady), fx.store.transitions[1].Status)
	assert.Equal(t, "kitchen", fx.store.transitions[1].UpdatedBy)
	assert.Equal(t, "Window 3", fx.store.transitions[1].Notes)

	// History stays in call order with non-decreasing timestamps.
	assert.False(t, fx.store.transitions[1].Timestamp.Before(fx.store.transitions[0].Timestamp))

	assert.Len(t, fx.broadcasts.orderUpdates, 2)
	assert.Len(t, fx.dispatches.statusUpdates, 2)
}

func TestStatusManagerOrderNotFound(t *testing.T) {
	fx := newStatusManagerFixture()

	_, err := fx.manager.UpdateStatus(context.Background(), "ord-missing", string(models.OrderStatusPreparing), "", "")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.StatusCode(err))

	assert.Empty(t, fx.store.transitions)
	assert.Empty(t, fx.broadcasts.orderUpdates)
	assert.Empty(t, fx.dispatches.statusUpdates)
}

func TestStatusManagerPersistFailureSuppressesBroadcast(t *testing.T) {
	fx := newStatusManagerFixture()
	fx.store.applyErr = errors.New("connection reset")

	_, err := fx.manager.UpdateStatus(context.Background(), fx.order.ID, string(models.OrderStatusPreparing), "", "")
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.StatusCode(err))

	assert.Empty(t, fx.broadcasts.orderUpdates)
	assert.Empty(t, fx.dispatches.statusUpdates)
}

func TestStatusManagerMissingCustomerSkipsNotification(t *testing.T) {
	fx := newStatusManagerFixture()
	fx.manager.customers = &fakeCustomerStore{customers: map[string]*models.Customer{}}

	updated, err := fx.manager.UpdateStatus(context.Background(), fx.order.ID, string(models.OrderStatusReady), "", "")
	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusReady), updated.Status)

	// The transition and broadcast still happen; only the email is skipped.
	assert.Len(t, fx.store.transitions, 1)
	assert.Len(t, fx.broadcasts.orderUpdates, 1)
	assert.Empty(t, fx.dispatches.statusUpdates)
}
