package models

import (
	"time"

	"github.com/lib/pq"
)

// Dietary indicator values carried by menu items
const (
	DietaryVegan      = "vegan"
	DietaryVegetarian = "vegetarian"
	DietaryGlutenFree = "gluten-free"
	DietaryHalal      = "halal"
	DietaryKosher     = "kosher"
	DietaryDairyFree  = "dairy-free"
	DietaryNutFree    = "nut-free"
	DietarySugarFree  = "sugar-free"
)

// MenuItem represents a dish on the menu
type MenuItem struct {
	ID                string         `db:"id" json:"id"`
	Name              string         `db:"name" json:"name"`
	Description       *string        `db:"description" json:"description,omitempty"`
	Price             float64        `db:"price" json:"price"`
	Category          string         `db:"category" json:"category"`
	DietaryIndicators pq.StringArray `db:"dietary_indicators" json:"dietaryIndicators"`
	Available         bool           `db:"available" json:"available"`
	Featured          bool           `db:"featured" json:"featured"`
	Seasonal          bool           `db:"seasonal" json:"seasonal"`
	SeasonStart       *time.Time     `db:"season_start" json:"seasonStart,omitempty"`
	SeasonEnd         *time.Time     `db:"season_end" json:"seasonEnd,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewMenuItem creates an available, non-featured menu item
func NewMenuItem(name string, price float64, category string) *MenuItem {
	now := GetCurrentTime()

	return &MenuItem{
		ID:        GenerateID("mnu"),
		Name:      name,
		Price:     price,
		Category:  category,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// VisibleAt reports whether the item should be shown to customers at the
// given instant: it must be available, and a seasonal item must be inside
// its season window.
func (m *MenuItem) VisibleAt(t time.Time) bool {
	if !m.Available {
		return false
	}
	if !m.Seasonal {
		return true
	}
	if m.SeasonStart == nil || m.SeasonEnd == nil {
		return false
	}
	return !t.Before(*m.SeasonStart) && !t.After(*m.SeasonEnd)
}
