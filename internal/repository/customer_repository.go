package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/azizrestaurant/restaurant-platform/internal/database"
	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *database.Database, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

const selectCustomerColumns = `
	SELECT id, email, first_name, last_name, phone, created_at, updated_at
	FROM customers
`

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, email, first_name, last_name, phone, created_at, updated_at)
		VALUES (:id, :email, :first_name, :last_name, :phone, :created_at, :updated_at)
	`

	_, err := r.db.DB.NamedExecContext(ctx, query, customer)
	if err != nil {
		r.logger.Error("Failed to create customer", "error", err, "customerID", customer.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// GetByID retrieves a customer by internal ID
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.DB.GetContext(ctx, &customer, selectCustomerColumns+` WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get customer by ID", "error", err, "customerID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &customer, nil
}

// GetByEmail retrieves a customer by email
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.DB.GetContext(ctx, &customer, selectCustomerColumns+` WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get customer by email", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &customer, nil
}

// Update persists mutable customer fields
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET email = $1, first_name = $2, last_name = $3, phone = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		customer.Email,
		customer.FirstName,
		customer.LastName,
		customer.Phone,
		models.GetCurrentTime(),
		customer.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update customer", "error", err, "customerID", customer.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}
