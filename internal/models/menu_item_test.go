package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisibleAt(t *testing.T) {
	now := time.Date(2023, 7, 15, 12, 0, 0, 0, time.UTC)
	before := now.AddDate(0, -1, 0)
	after := now.AddDate(0, 1, 0)

	item := NewMenuItem("Lamb Tagine", 24.00, "mains")
	assert.True(t, item.VisibleAt(now), "available non-seasonal item is visible")

	item.Available = false
	assert.False(t, item.VisibleAt(now), "unavailable item is hidden")

	item.Available = true
	item.Seasonal = true
	assert.False(t, item.VisibleAt(now), "seasonal item without a window is hidden")

	item.SeasonStart = &before
	item.SeasonEnd = &after
	assert.True(t, item.VisibleAt(now), "inside the season window")

	assert.False(t, item.VisibleAt(after.AddDate(0, 0, 1)), "past the season window")
	assert.False(t, item.VisibleAt(before.AddDate(0, 0, -1)), "before the season window")
}
