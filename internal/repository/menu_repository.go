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

// MenuRepository handles database operations for menu items
type MenuRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewMenuRepository creates a new MenuRepository
func NewMenuRepository(db *database.Database, logger logger.Logger) *MenuRepository {
	return &MenuRepository{
		db:     db,
		logger: logger,
	}
}

const selectMenuItemColumns = `
	SELECT id, name, description, price, category, dietary_indicators,
		available, featured, seasonal, season_start, season_end,
		created_at, updated_at
	FROM menu_items
`

// Create inserts a new menu item
func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, name, description, price, category,
			dietary_indicators, available, featured, seasonal,
			season_start, season_end, created_at, updated_at)
		VALUES (:id, :name, :description, :price, :category,
			:dietary_indicators, :available, :featured, :seasonal,
			:season_start, :season_end, :created_at, :updated_at)
	`

	_, err := r.db.DB.NamedExecContext(ctx, query, item)
	if err != nil {
		r.logger.Error("Failed to create menu item", "error", err, "menuItemID", item.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// GetByID retrieves a menu item by ID
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.DB.GetContext(ctx, &item, selectMenuItemColumns+` WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get menu item", "error", err, "menuItemID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &item, nil
}

// GetVisible retrieves the items currently visible to customers: available,
// and either not seasonal or inside their season window.
func (r *MenuRepository) GetVisible(ctx context.Context) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	err := r.db.DB.SelectContext(ctx, &items,
		selectMenuItemColumns+`
		 WHERE available = TRUE
		   AND (seasonal = FALSE OR (season_start <= NOW() AND season_end >= NOW()))
		 ORDER BY category ASC, name ASC`)
	if err != nil {
		r.logger.Error("Failed to get visible menu items", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return items, nil
}

// GetByCategory retrieves available items in a category
func (r *MenuRepository) GetByCategory(ctx context.Context, category string) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	err := r.db.DB.SelectContext(ctx, &items,
		selectMenuItemColumns+` WHERE category = $1 AND available = TRUE ORDER BY name ASC`, category)
	if err != nil {
		r.logger.Error("Failed to get menu items by category", "error", err, "category", category)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return items, nil
}

// GetFeatured retrieves available featured items
func (r *MenuRepository) GetFeatured(ctx context.Context) ([]*models.MenuItem, error) {
	var items []*models.MenuItem
	err := r.db.DB.SelectContext(ctx, &items,
		selectMenuItemColumns+` WHERE available = TRUE AND featured = TRUE ORDER BY name ASC`)
	if err != nil {
		r.logger.Error("Failed to get featured menu items", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return items, nil
}

// GetCategories lists the distinct categories with available items
func (r *MenuRepository) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.DB.SelectContext(ctx, &categories,
		`SELECT DISTINCT category FROM menu_items WHERE available = TRUE ORDER BY category ASC`)
	if err != nil {
		r.logger.Error("Failed to get menu categories", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return categories, nil
}

// Update persists mutable menu item fields
func (r *MenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4,
			dietary_indicators = $5, available = $6, featured = $7,
			seasonal = $8, season_start = $9, season_end = $10, updated_at = $11
		WHERE id = $12
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		item.Name,
		item.Description,
		item.Price,
		item.Category,
		item.DietaryIndicators,
		item.Available,
		item.Featured,
		item.Seasonal,
		item.SeasonStart,
		item.SeasonEnd,
		models.GetCurrentTime(),
		item.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update menu item", "error", err, "menuItemID", item.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}

// SetAvailability flips the availability flag
func (r *MenuRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE menu_items SET available = $1, updated_at = $2 WHERE id = $3`,
		available, models.GetCurrentTime(), id,
	)
	if err != nil {
		r.logger.Error("Failed to set menu item availability", "error", err, "menuItemID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}

// Delete removes a menu item
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete menu item", "error", err, "menuItemID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return requireRow(result)
}
