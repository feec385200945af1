package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/azizrestaurant/restaurant-platform/internal/config"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

// Database wraps the sqlx connection pool
type Database struct {
	DB     *sqlx.DB
	logger logger.Logger
}

// New opens a connection pool against the configured Postgres instance
func New(cfg *config.Config, logger logger.Logger) (*Database, error) {
	db, err := sqlx.Connect("postgres", cfg.GetDBConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("Connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	return &Database{
		DB:     db,
		logger: logger,
	}, nil
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the connection pool
func (d *Database) Close() error {
	return d.DB.Close()
}

// RunMigrations creates the schema on startup. Idempotent; a dedicated
// migration tool would replace this for anything beyond a single deployment.
func (d *Database) RunMigrations() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR(50) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		phone VARCHAR(30),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS menu_items (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		description TEXT,
		price NUMERIC(10, 2) NOT NULL CHECK (price > 0),
		category VARCHAR(100) NOT NULL,
		dietary_indicators TEXT[] NOT NULL DEFAULT '{}',
		available BOOLEAN NOT NULL DEFAULT TRUE,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		seasonal BOOLEAN NOT NULL DEFAULT FALSE,
		season_start TIMESTAMP,
		season_end TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items(category);

	CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(50) PRIMARY KEY,
		tracking_id VARCHAR(50) NOT NULL UNIQUE,
		customer_id VARCHAR(50) NOT NULL,
		order_type VARCHAR(20) NOT NULL,
		status VARCHAR(30) NOT NULL,
		total_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
		delivery_fee NUMERIC(10, 2) NOT NULL DEFAULT 0,
		delivery_address JSONB,
		special_instructions TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_tracking_id ON orders(tracking_id);

	CREATE TABLE IF NOT EXISTS order_items (
		id VARCHAR(50) PRIMARY KEY,
		order_id VARCHAR(50) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menu_item_id VARCHAR(50) NOT NULL,
		quantity INT NOT NULL CHECK (quantity >= 1),
		unit_price NUMERIC(10, 2) NOT NULL,
		instructions TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

	CREATE TABLE IF NOT EXISTS order_status_history (
		id VARCHAR(50) PRIMARY KEY,
		order_id VARCHAR(50) NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		status VARCHAR(30) NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		updated_by VARCHAR(100) NOT NULL DEFAULT 'system',
		timestamp TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_status_history_order_id ON order_status_history(order_id);

	CREATE TABLE IF NOT EXISTS reservations (
		id VARCHAR(50) PRIMARY KEY,
		customer_id VARCHAR(50) NOT NULL,
		reservation_date DATE NOT NULL,
		reservation_time VARCHAR(5) NOT NULL,
		party_size INT NOT NULL CHECK (party_size BETWEEN 1 AND 20),
		status VARCHAR(20) NOT NULL,
		confirmation_code VARCHAR(50) NOT NULL UNIQUE,
		special_requests TEXT,
		table_number VARCHAR(20),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_reservations_customer_id ON reservations(customer_id);
	CREATE INDEX IF NOT EXISTS idx_reservations_slot ON reservations(reservation_date, reservation_time);
	`

	_, err := d.DB.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}
