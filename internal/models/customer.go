package models

import (
	"time"
)

// Customer represents a registered customer. Customers are created on first
// order or reservation, or through explicit registration; they are referenced
// by orders and reservations but never deleted by this layer.
type Customer struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewCustomer creates a customer with a fresh internal ID
func NewCustomer(email, firstName, lastName string, phone *string) *Customer {
	now := GetCurrentTime()

	return &Customer{
		ID:        GenerateID("cus"),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
