package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/azizrestaurant/restaurant-platform/pkg/errors"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/internal/notifier"
	"github.com/azizrestaurant/restaurant-platform/internal/repository"
)

// conflictWindow is added to the requested party size when looking for
// conflicting reservations at creation time. The window is deliberately
// generous and intentionally wider than the availability check; changing
// either predicate changes observable booking behavior.
const conflictWindow = 20

// ReservationService owns reservation creation with conflict detection,
// availability queries, cancellation and updates.
type ReservationService struct {
	reservations *repository.ReservationRepository
	customers    *repository.CustomerRepository
	broadcaster  Broadcaster
	dispatcher   notifier.Dispatcher
	logger       logger.Logger
}

// NewReservationService creates a ReservationService
func NewReservationService(
	reservations *repository.ReservationRepository,
	customers *repository.CustomerRepository,
	broadcaster Broadcaster,
	dispatcher notifier.Dispatcher,
	logger logger.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		customers:    customers,
		broadcaster:  broadcaster,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// CreateReservationInput is the payload for reservation creation
type CreateReservationInput struct {
	CustomerID      string  `json:"customerId" validate:"required"`
	Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string  `json:"time" validate:"required"`
	PartySize       int     `json:"partySize" validate:"required,min=1,max=20"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// SlotConflicts reports whether any existing active reservation blocks
// creating one for the requested party size at the same slot. An existing
// reservation conflicts when its party size is at most requested+20.
func SlotConflicts(existing []*models.Reservation, partySize int) bool {
	for _, r := range existing {
		if r.PartySize <= partySize+conflictWindow {
			return true
		}
	}
	return false
}

// SlotClaimed reports whether an existing active reservation already claims
// enough capacity for the requested party size: any reservation at the slot
// with a party size of at least the requested one.
func SlotClaimed(existing []*models.Reservation, partySize int) bool {
	for _, r := range existing {
		if r.PartySize >= partySize {
			return true
		}
	}
	return false
}

// Create books a reservation. The conflict check and insert run in one
// transaction with the slot's rows locked, so two concurrent requests for
// the same slot serialize instead of both passing the check.
func (s *ReservationService) Create(ctx context.Context, input *CreateReservationInput) (*models.Reservation, error) {
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid reservation date, expected YYYY-MM-DD")
	}

	tx, err := s.reservations.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to begin transaction")
	}
	defer tx.Rollback()

	existing, err := s.reservations.LockSlotInTx(tx, date, input.Time)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to check slot availability")
	}
	if SlotConflicts(existing, input.PartySize) {
		return nil, apperrors.NewConflictError("Table not available for the selected time and party size")
	}

	reservation := models.NewReservation(input.CustomerID, date, input.Time, input.PartySize)
	reservation.SpecialRequests = input.SpecialRequests

	if err := s.reservations.CreateInTx(tx, reservation); err != nil {
		return nil, apperrors.NewInternalError("Failed to create reservation")
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("Failed to commit reservation", "error", err, "reservationID", reservation.ID)
		return nil, apperrors.NewInternalError("Failed to commit reservation")
	}

	s.logger.Info("Reservation created",
		"reservationID", reservation.ID, "confirmationCode", reservation.ConfirmationCode,
		"date", input.Date, "time", input.Time, "partySize", input.PartySize)

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Customer not found, skipping reservation confirmation",
				"reservationID", reservation.ID, "customerID", input.CustomerID)
		} else {
			s.logger.Error("Failed to load customer for reservation confirmation",
				"error", err, "reservationID", reservation.ID)
		}
		return reservation, nil
	}
	s.dispatcher.DispatchReservationConfirmation(reservation, customer)

	return reservation, nil
}

// CheckAvailability reports whether the slot can take the requested party
// size: unavailable iff an active reservation at the exact slot already has
// a party size of at least the requested one.
func (s *ReservationService) CheckAvailability(ctx context.Context, date time.Time, timeOfDay string, partySize int) (bool, error) {
	existing, err := s.reservations.FindActiveBySlot(ctx, date, timeOfDay)
	if err != nil {
		return false, apperrors.NewInternalError("Failed to check availability")
	}
	return !SlotClaimed(existing, partySize), nil
}

// GetAvailableTimeSlots returns the canonical hourly slots that can still
// take the requested party size on the given date, ascending.
func (s *ReservationService) GetAvailableTimeSlots(ctx context.Context, date time.Time, partySize int) ([]string, error) {
	active, err := s.reservations.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load reservations")
	}

	bySlot := make(map[string][]*models.Reservation)
	for _, r := range active {
		bySlot[r.ReservationTime] = append(bySlot[r.ReservationTime], r)
	}

	available := make([]string, 0, 13)
	for _, slot := range models.TimeSlots() {
		if !SlotClaimed(bySlot[slot], partySize) {
			available = append(available, slot)
		}
	}
	return available, nil
}

// GetByID returns a reservation
func (s *ReservationService) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Reservation %s not found", id))
		}
		return nil, apperrors.NewInternalError("Failed to load reservation")
	}
	return reservation, nil
}

// GetByCustomerID returns a customer's reservations, newest date first
func (s *ReservationService) GetByCustomerID(ctx context.Context, customerID string) ([]*models.Reservation, error) {
	reservations, err := s.reservations.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load reservations")
	}
	return reservations, nil
}

// GetAll returns a page of reservations, newest first
func (s *ReservationService) GetAll(ctx context.Context, limit, offset int) ([]*models.Reservation, error) {
	reservations, err := s.reservations.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load reservations")
	}
	return reservations, nil
}

// Cancel sets the reservation to CANCELLED. No cancellation email template
// exists, so the notification is logged rather than sent.
func (s *ReservationService) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.reservations.UpdateStatus(ctx, id, string(models.ReservationStatusCancelled)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Reservation %s not found", id))
		}
		return nil, apperrors.NewInternalError("Failed to cancel reservation")
	}
	reservation.Status = string(models.ReservationStatusCancelled)
	reservation.UpdatedAt = models.GetCurrentTime()

	s.logger.Info("Reservation cancelled, cancellation notification logged only",
		"reservationID", id, "customerID", reservation.CustomerID)

	s.broadcaster.PublishReservationUpdate(id, reservation)

	return reservation, nil
}

// UpdateReservationInput is the patch payload for reservation updates
type UpdateReservationInput struct {
	Date            *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time            *string `json:"time,omitempty"`
	PartySize       *int    `json:"partySize,omitempty" validate:"omitempty,min=1,max=20"`
	Status          *string `json:"status,omitempty"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
	TableNumber     *string `json:"tableNumber,omitempty"`
}

// ExcludeReservation returns existing without the reservation carrying the
// given ID. A reservation being moved must not conflict with its own row.
func ExcludeReservation(existing []*models.Reservation, id string) []*models.Reservation {
	others := make([]*models.Reservation, 0, len(existing))
	for _, r := range existing {
		if r.ID != id {
			others = append(others, r)
		}
	}
	return others
}

// Update applies a field patch. A change to the slot (date, time or party
// size) re-runs the creation conflict check under the slot lock, so an
// update cannot double-book a slot creation would have refused. A status
// change through this path is logged but sends no email, unlike order
// status updates which do send.
func (s *ReservationService) Update(ctx context.Context, id string, input *UpdateReservationInput) (*models.Reservation, error) {
	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slotChanged := input.Date != nil || input.Time != nil || input.PartySize != nil

	if input.Date != nil {
		date, err := time.Parse("2006-01-02", *input.Date)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid reservation date, expected YYYY-MM-DD")
		}
		reservation.ReservationDate = date
	}
	if input.Time != nil {
		reservation.ReservationTime = *input.Time
	}
	if input.PartySize != nil {
		reservation.PartySize = *input.PartySize
	}
	if input.Status != nil {
		if !models.IsValidReservationStatus(*input.Status) {
			return nil, apperrors.NewInvalidStatusError(fmt.Sprintf("Invalid reservation status: %s", *input.Status))
		}
		reservation.Status = *input.Status
	}
	if input.SpecialRequests != nil {
		reservation.SpecialRequests = input.SpecialRequests
	}
	if input.TableNumber != nil {
		reservation.TableNumber = input.TableNumber
	}

	if slotChanged {
		if err := s.updateWithSlotCheck(ctx, reservation); err != nil {
			return nil, err
		}
	} else {
		if err := s.reservations.Update(ctx, reservation); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewNotFoundError(fmt.Sprintf("Reservation %s not found", id))
			}
			return nil, apperrors.NewInternalError("Failed to update reservation")
		}
	}
	reservation.UpdatedAt = models.GetCurrentTime()

	if input.Status != nil {
		s.logger.Info("Reservation status changed, notification logged only",
			"reservationID", id, "status", *input.Status, "customerID", reservation.CustomerID)
	}

	s.broadcaster.PublishReservationUpdate(id, reservation)

	return reservation, nil
}

// updateWithSlotCheck persists a slot change inside one transaction: lock the
// target slot, re-run the creation conflict check against every other active
// reservation there, then write. The reservation's own row is excluded so a
// same-slot party size change does not conflict with itself.
func (s *ReservationService) updateWithSlotCheck(ctx context.Context, reservation *models.Reservation) error {
	tx, err := s.reservations.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("Failed to begin transaction")
	}
	defer tx.Rollback()

	existing, err := s.reservations.LockSlotInTx(tx, reservation.ReservationDate, reservation.ReservationTime)
	if err != nil {
		return apperrors.NewInternalError("Failed to check slot availability")
	}
	if SlotConflicts(ExcludeReservation(existing, reservation.ID), reservation.PartySize) {
		return apperrors.NewConflictError("Table not available for the selected time and party size")
	}

	if err := s.reservations.UpdateInTx(tx, reservation); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("Reservation %s not found", reservation.ID))
		}
		return apperrors.NewInternalError("Failed to update reservation")
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("Failed to commit reservation update", "error", err, "reservationID", reservation.ID)
		return apperrors.NewInternalError("Failed to commit reservation update")
	}
	return nil
}
