package models

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GenerateID generates a new internal entity ID with the given prefix
func GenerateID(prefix string) string {
	id := uuid.New().String()

	return fmt.Sprintf("%s-%s", prefix, id[:8])
}

// GenerateTrackingID generates a human-shareable order tracking code,
// format ORD-<epoch-ms>-<6-digit-random>
func GenerateTrackingID() string {
	return fmt.Sprintf("ORD-%d-%d", time.Now().UnixMilli(), 100000+rand.Intn(900000))
}

// GenerateConfirmationCode generates a human-shareable reservation code,
// format RES-<epoch-ms>-<4-digit-random>
func GenerateConfirmationCode() string {
	return fmt.Sprintf("RES-%d-%d", time.Now().UnixMilli(), 1000+rand.Intn(9000))
}

// Round2 rounds a monetary amount to two decimal places
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// GetCurrentTime returns the current time in UTC
func GetCurrentTime() time.Time {
	return time.Now().UTC()
}
