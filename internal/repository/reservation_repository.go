package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/azizrestaurant/restaurant-platform/internal/database"
	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

// ReservationRepository handles database operations for reservations
type ReservationRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db *database.Database, logger logger.Logger) *ReservationRepository {
	return &ReservationRepository{
		db:     db,
		logger: logger,
	}
}

// BeginTx starts a transaction
func (r *ReservationRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return tx, nil
}

const selectReservationColumns = `
	SELECT id, customer_id, reservation_date, reservation_time, party_size,
		status, confirmation_code, special_requests, table_number,
		created_at, updated_at
	FROM reservations
`

// LockSlotInTx loads the active (PENDING/CONFIRMED) reservations for the
// exact date+time slot and locks the rows for the duration of the
// transaction, serializing concurrent creations against the same slot.
func (r *ReservationRepository) LockSlotInTx(tx *sqlx.Tx, date time.Time, timeOfDay string) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := tx.Select(&reservations,
		selectReservationColumns+`
		 WHERE reservation_date = $1 AND reservation_time = $2
		   AND status IN ('PENDING', 'CONFIRMED')
		 FOR UPDATE`, date, timeOfDay)
	if err != nil {
		r.logger.Error("Failed to lock reservation slot", "error", err, "time", timeOfDay)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return reservations, nil
}

const insertReservationQuery = `
	INSERT INTO reservations (id, customer_id, reservation_date, reservation_time,
		party_size, status, confirmation_code, special_requests, table_number,
		created_at, updated_at)
	VALUES (:id, :customer_id, :reservation_date, :reservation_time,
		:party_size, :status, :confirmation_code, :special_requests, :table_number,
		:created_at, :updated_at)
`

// CreateInTx inserts a reservation within the given transaction
func (r *ReservationRepository) CreateInTx(tx *sqlx.Tx, reservation *models.Reservation) error {
	_, err := tx.NamedExec(insertReservationQuery, reservation)
	if err != nil {
		r.logger.Error("Failed to create reservation", "error", err, "reservationID", reservation.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// GetByID retrieves a reservation by its internal ID
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.DB.GetContext(ctx, &reservation, selectReservationColumns+` WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get reservation", "error", err, "reservationID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &reservation, nil
}

// GetByCustomerID retrieves all reservations for a customer, newest date first
func (r *ReservationRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.DB.SelectContext(ctx, &reservations,
		selectReservationColumns+` WHERE customer_id = $1 ORDER BY reservation_date DESC`, customerID)
	if err != nil {
		r.logger.Error("Failed to get reservations by customer ID", "error", err, "customerID", customerID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return reservations, nil
}

// GetAll retrieves all reservations, newest first
func (r *ReservationRepository) GetAll(ctx context.Context, limit, offset int) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.DB.SelectContext(ctx, &reservations,
		selectReservationColumns+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		r.logger.Error("Failed to get all reservations", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return reservations, nil
}

// FindActiveBySlot returns active reservations at the exact date+time slot
func (r *ReservationRepository) FindActiveBySlot(ctx context.Context, date time.Time, timeOfDay string) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.DB.SelectContext(ctx, &reservations,
		selectReservationColumns+`
		 WHERE reservation_date = $1 AND reservation_time = $2
		   AND status IN ('PENDING', 'CONFIRMED')`, date, timeOfDay)
	if err != nil {
		r.logger.Error("Failed to find reservations by slot", "error", err, "time", timeOfDay)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return reservations, nil
}

// ListActiveByDate returns active reservations on the given date
func (r *ReservationRepository) ListActiveByDate(ctx context.Context, date time.Time) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.DB.SelectContext(ctx, &reservations,
		selectReservationColumns+`
		 WHERE reservation_date = $1
		   AND status IN ('PENDING', 'CONFIRMED')`, date)
	if err != nil {
		r.logger.Error("Failed to list reservations by date", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return reservations, nil
}

// Update persists mutable reservation fields
func (r *ReservationRepository) Update(ctx context.Context, reservation *models.Reservation) error {
	query := `
		UPDATE reservations
		SET reservation_date = $1, reservation_time = $2, party_size = $3,
			status = $4, special_requests = $5, table_number = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		reservation.ReservationDate,
		reservation.ReservationTime,
		reservation.PartySize,
		reservation.Status,
		reservation.SpecialRequests,
		reservation.TableNumber,
		models.GetCurrentTime(),
		reservation.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update reservation", "error", err, "reservationID", reservation.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}

// UpdateInTx persists mutable reservation fields within the given
// transaction. Used when a slot change must stay under the slot lock.
func (r *ReservationRepository) UpdateInTx(tx *sqlx.Tx, reservation *models.Reservation) error {
	query := `
		UPDATE reservations
		SET reservation_date = $1, reservation_time = $2, party_size = $3,
			status = $4, special_requests = $5, table_number = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := tx.Exec(query,
		reservation.ReservationDate,
		reservation.ReservationTime,
		reservation.PartySize,
		reservation.Status,
		reservation.SpecialRequests,
		reservation.TableNumber,
		models.GetCurrentTime(),
		reservation.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update reservation", "error", err, "reservationID", reservation.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}

// UpdateStatus sets the reservation status
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`,
		status, models.GetCurrentTime(), id,
	)
	if err != nil {
		r.logger.Error("Failed to update reservation status", "error", err, "reservationID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
