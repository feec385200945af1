package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/azizrestaurant/restaurant-platform/internal/database"
	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrDatabase = errors.New("database error")
)

// OrderRepository handles database operations for orders and their items
type OrderRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *database.Database, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// BeginTx starts a transaction
func (r *OrderRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return tx, nil
}

const insertOrderQuery = `
	INSERT INTO orders (id, tracking_id, customer_id, order_type, status,
		total_amount, tax_amount, delivery_fee, delivery_address,
		special_instructions, created_at, updated_at)
	VALUES (:id, :tracking_id, :customer_id, :order_type, :status,
		:total_amount, :tax_amount, :delivery_fee, :delivery_address,
		:special_instructions, :created_at, :updated_at)
`

// CreateInTx inserts a new order within the given transaction
func (r *OrderRepository) CreateInTx(tx *sqlx.Tx, order *models.Order) error {
	_, err := tx.NamedExec(insertOrderQuery, order)
	if err != nil {
		r.logger.Error("Failed to create order", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

const insertOrderItemQuery = `
	INSERT INTO order_items (id, order_id, menu_item_id, quantity, unit_price, instructions)
	VALUES (:id, :order_id, :menu_item_id, :quantity, :unit_price, :instructions)
`

// CreateItemInTx inserts a line item within the given transaction
func (r *OrderRepository) CreateItemInTx(tx *sqlx.Tx, item *models.OrderItem) error {
	_, err := tx.NamedExec(insertOrderItemQuery, item)
	if err != nil {
		r.logger.Error("Failed to create order item", "error", err, "orderID", item.OrderID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

const selectOrderColumns = `
	SELECT id, tracking_id, customer_id, order_type, status, total_amount,
		tax_amount, delivery_fee, delivery_address, special_instructions,
		created_at, updated_at
	FROM orders
`

// GetByID retrieves an order by its internal ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, selectOrderColumns+` WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order by ID", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &order, nil
}

// GetByTrackingID retrieves an order by its tracking code
func (r *OrderRepository) GetByTrackingID(ctx context.Context, trackingID string) (*models.Order, error) {
	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, selectOrderColumns+` WHERE tracking_id = $1`, trackingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order by tracking ID", "error", err, "trackingID", trackingID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &order, nil
}

// GetByCustomerID retrieves all orders for a customer, newest first
func (r *OrderRepository) GetByCustomerID(ctx context.Context, customerID string) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.DB.SelectContext(ctx, &orders,
		selectOrderColumns+` WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		r.logger.Error("Failed to get orders by customer ID", "error", err, "customerID", customerID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return orders, nil
}

// GetAll retrieves all orders, newest first
func (r *OrderRepository) GetAll(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.DB.SelectContext(ctx, &orders,
		selectOrderColumns+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		r.logger.Error("Failed to get all orders", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return orders, nil
}

// Update persists mutable order fields
func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET order_type = $1, status = $2, total_amount = $3, tax_amount = $4,
			delivery_fee = $5, delivery_address = $6, special_instructions = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		order.OrderType,
		order.Status,
		order.TotalAmount,
		order.TaxAmount,
		order.DeliveryFee,
		order.DeliveryAddress,
		order.SpecialInstructions,
		models.GetCurrentTime(),
		order.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update order", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}

// UpdateStatusInTx sets the order status within the given transaction
func (r *OrderRepository) UpdateStatusInTx(tx *sqlx.Tx, orderID, status string) error {
	result, err := tx.Exec(
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, models.GetCurrentTime(), orderID,
	)
	if err != nil {
		r.logger.Error("Failed to update order status", "error", err, "orderID", orderID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}

// UpdateTotals persists recomputed totals for an order
func (r *OrderRepository) UpdateTotals(ctx context.Context, orderID string, totalAmount, taxAmount float64) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE orders SET total_amount = $1, tax_amount = $2, updated_at = $3 WHERE id = $4`,
		totalAmount, taxAmount, models.GetCurrentTime(), orderID,
	)
	if err != nil {
		r.logger.Error("Failed to update order totals", "error", err, "orderID", orderID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}

// GetItems retrieves the line items for an order
func (r *OrderRepository) GetItems(ctx context.Context, orderID string) ([]*models.OrderItem, error) {
	var items []*models.OrderItem
	err := r.db.DB.SelectContext(ctx, &items,
		`SELECT id, order_id, menu_item_id, quantity, unit_price, instructions
		 FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		r.logger.Error("Failed to get order items", "error", err, "orderID", orderID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return items, nil
}

// GetItem retrieves a single line item
func (r *OrderRepository) GetItem(ctx context.Context, itemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.DB.GetContext(ctx, &item,
		`SELECT id, order_id, menu_item_id, quantity, unit_price, instructions
		 FROM order_items WHERE id = $1`, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order item", "error", err, "itemID", itemID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &item, nil
}

// AddItem inserts a line item outside a transaction
func (r *OrderRepository) AddItem(ctx context.Context, item *models.OrderItem) error {
	_, err := r.db.DB.NamedExecContext(ctx, insertOrderItemQuery, item)
	if err != nil {
		r.logger.Error("Failed to add order item", "error", err, "orderID", item.OrderID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// RemoveItem deletes a line item
func (r *OrderRepository) RemoveItem(ctx context.Context, itemID string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM order_items WHERE id = $1`, itemID)
	if err != nil {
		r.logger.Error("Failed to remove order item", "error", err, "itemID", itemID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}

