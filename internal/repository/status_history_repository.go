package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/azizrestaurant/restaurant-platform/internal/database"
	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

// StatusHistoryRepository handles the append-only order status log
type StatusHistoryRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewStatusHistoryRepository creates a new StatusHistoryRepository
func NewStatusHistoryRepository(db *database.Database, logger logger.Logger) *StatusHistoryRepository {
	return &StatusHistoryRepository{
		db:     db,
		logger: logger,
	}
}

const insertHistoryQuery = `
	INSERT INTO order_status_history (id, order_id, status, notes, updated_by, timestamp)
	VALUES (:id, :order_id, :status, :notes, :updated_by, :timestamp)
`

// AppendInTx appends a history record within the given transaction
func (r *StatusHistoryRepository) AppendInTx(tx *sqlx.Tx, record *models.OrderStatusHistory) error {
	_, err := tx.NamedExec(insertHistoryQuery, record)
	if err != nil {
		r.logger.Error("Failed to append status history", "error", err, "orderID", record.OrderID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// ListByOrderID returns the history for an order, ascending by timestamp
func (r *StatusHistoryRepository) ListByOrderID(ctx context.Context, orderID string) ([]*models.OrderStatusHistory, error) {
	var records []*models.OrderStatusHistory
	err := r.db.DB.SelectContext(ctx, &records,
		`SELECT id, order_id, status, notes, updated_by, timestamp
		 FROM order_status_history
		 WHERE order_id = $1
		 ORDER BY timestamp ASC`, orderID)
	if err != nil {
		r.logger.Error("Failed to list status history", "error", err, "orderID", orderID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return records, nil
}
