package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	apperrors "github.com/azizrestaurant/restaurant-platform/pkg/errors"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"

	"github.com/azizrestaurant/restaurant-platform/internal/models"
	"github.com/azizrestaurant/restaurant-platform/internal/repository"
)

// MenuService owns the customer-visible menu and its administration
type MenuService struct {
	menu   *repository.MenuRepository
	logger logger.Logger
}

// NewMenuService creates a MenuService
func NewMenuService(menu *repository.MenuRepository, logger logger.Logger) *MenuService {
	return &MenuService{
		menu:   menu,
		logger: logger,
	}
}

// MenuItemInput is the payload for creating or replacing a menu item
type MenuItemInput struct {
	Name              string   `json:"name" validate:"required"`
	Description       *string  `json:"description,omitempty"`
	Price             float64  `json:"price" validate:"required,gt=0"`
	Category          string   `json:"category" validate:"required"`
	DietaryIndicators []string `json:"dietaryIndicators,omitempty"`
	Available         *bool    `json:"available,omitempty"`
	Featured          bool     `json:"featured"`
	Seasonal          bool     `json:"seasonal"`
	SeasonStart       *string  `json:"seasonStart,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SeasonEnd         *string  `json:"seasonEnd,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// GetVisibleItems returns the items currently shown to customers, grouped
// ordering by category then name.
func (s *MenuService) GetVisibleItems(ctx context.Context) ([]*models.MenuItem, error) {
	items, err := s.menu.GetVisible(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load menu")
	}
	return items, nil
}

// GetByCategory returns the available items in one category
func (s *MenuService) GetByCategory(ctx context.Context, category string) ([]*models.MenuItem, error) {
	items, err := s.menu.GetByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load menu category")
	}
	return items, nil
}

// GetFeatured returns the available featured items
func (s *MenuService) GetFeatured(ctx context.Context) ([]*models.MenuItem, error) {
	items, err := s.menu.GetFeatured(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load featured items")
	}
	return items, nil
}

// GetCategories lists the categories with available items
func (s *MenuService) GetCategories(ctx context.Context) ([]string, error) {
	categories, err := s.menu.GetCategories(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to load menu categories")
	}
	return categories, nil
}

// GetByID returns a single menu item
func (s *MenuService) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.menu.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Menu item %s not found", id))
		}
		return nil, apperrors.NewInternalError("Failed to load menu item")
	}
	return item, nil
}

// Create adds a new menu item
func (s *MenuService) Create(ctx context.Context, input *MenuItemInput) (*models.MenuItem, error) {
	item := models.NewMenuItem(input.Name, input.Price, input.Category)
	if err := s.applyInput(item, input); err != nil {
		return nil, err
	}

	if err := s.menu.Create(ctx, item); err != nil {
		return nil, apperrors.NewInternalError("Failed to create menu item")
	}

	s.logger.Info("Menu item created", "menuItemID", item.ID, "name", item.Name)
	return item, nil
}

// Update replaces a menu item's fields
func (s *MenuService) Update(ctx context.Context, id string, input *MenuItemInput) (*models.MenuItem, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = input.Name
	item.Price = input.Price
	item.Category = input.Category
	if err := s.applyInput(item, input); err != nil {
		return nil, err
	}

	if err := s.menu.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Menu item %s not found", id))
		}
		return nil, apperrors.NewInternalError("Failed to update menu item")
	}
	return item, nil
}

// SetAvailability flips an item's availability flag
func (s *MenuService) SetAvailability(ctx context.Context, id string, available bool) error {
	err := s.menu.SetAvailability(ctx, id, available)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("Menu item %s not found", id))
		}
		return apperrors.NewInternalError("Failed to update menu item availability")
	}
	return nil
}

// Delete removes a menu item
func (s *MenuService) Delete(ctx context.Context, id string) error {
	err := s.menu.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("Menu item %s not found", id))
		}
		return apperrors.NewInternalError("Failed to delete menu item")
	}
	return nil
}

func (s *MenuService) applyInput(item *models.MenuItem, input *MenuItemInput) error {
	item.Description = input.Description
	item.DietaryIndicators = pq.StringArray(input.DietaryIndicators)
	item.Featured = input.Featured
	item.Seasonal = input.Seasonal
	if input.Available != nil {
		item.Available = *input.Available
	}

	start, err := parseDatePtr(input.SeasonStart)
	if err != nil {
		return apperrors.NewValidationError("Invalid seasonStart, expected YYYY-MM-DD")
	}
	end, err := parseDatePtr(input.SeasonEnd)
	if err != nil {
		return apperrors.NewValidationError("Invalid seasonEnd, expected YYYY-MM-DD")
	}
	item.SeasonStart = start
	item.SeasonEnd = end

	if item.Seasonal && (item.SeasonStart == nil || item.SeasonEnd == nil) {
		return apperrors.NewValidationError("Seasonal items require seasonStart and seasonEnd")
	}
	return nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
