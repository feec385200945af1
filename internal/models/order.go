package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusReceived       OrderStatus = "RECEIVED"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReady          OrderStatus = "READY"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// OrderStatuses lists every recognized order status
var OrderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusOutForDelivery,
	OrderStatusReadyForPickup,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether s is a recognized order status.
// There is no enforced transition graph: any status is reachable from any
// other via an explicit update. This hook is the single place a stricter
// transition table would plug in.
func IsValidOrderStatus(s string) bool {
	for _, valid := range OrderStatuses {
		if s == string(valid) {
			return true
		}
	}
	return false
}

// OrderType represents how an order is fulfilled
type OrderType string

const (
	OrderTypeDelivery OrderType = "DELIVERY"
	OrderTypePickup   OrderType = "PICKUP"
	OrderTypeDineIn   OrderType = "DINE_IN"
)

// TaxRate is applied to the subtotal (delivery fee included) of every order
const TaxRate = 0.08

// DeliveryAddress is the structured delivery destination, stored as JSONB
type DeliveryAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// Value implements driver.Valuer for JSONB storage
func (a DeliveryAddress) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB storage
func (a *DeliveryAddress) Scan(src interface{}) error {
	if src == nil {
		return nil
	}

	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into DeliveryAddress", src)
	}
	return json.Unmarshal(b, a)
}

// Order represents a customer order
type Order struct {
	ID                  string           `db:"id" json:"id"`
	TrackingID          string           `db:"tracking_id" json:"trackingId"`
	CustomerID          string           `db:"customer_id" json:"customerId"`
	OrderType           string           `db:"order_type" json:"orderType"`
	Status              string           `db:"status" json:"status"`
	TotalAmount         float64          `db:"total_amount" json:"totalAmount"`
	TaxAmount           float64          `db:"tax_amount" json:"taxAmount"`
	DeliveryFee         float64          `db:"delivery_fee" json:"deliveryFee"`
	DeliveryAddress     *DeliveryAddress `db:"delivery_address" json:"deliveryAddress,omitempty"`
	SpecialInstructions *string          `db:"special_instructions" json:"specialInstructions,omitempty"`
	CreatedAt           time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time        `db:"updated_at" json:"updatedAt"`

	Items   []*OrderItem          `db:"-" json:"items,omitempty"`
	History []*OrderStatusHistory `db:"-" json:"statusHistory,omitempty"`
}

// OrderItem is a line item owned exclusively by its order. UnitPrice is a
// snapshot taken when the item is added, not a live menu price.
type OrderItem struct {
	ID           string  `db:"id" json:"id"`
	OrderID      string  `db:"order_id" json:"orderId"`
	MenuItemID   string  `db:"menu_item_id" json:"menuItemId"`
	Quantity     int     `db:"quantity" json:"quantity"`
	UnitPrice    float64 `db:"unit_price" json:"unitPrice"`
	Instructions *string `db:"instructions" json:"instructions,omitempty"`
}

// OrderStatusHistory is one record of the append-only status log
type OrderStatusHistory struct {
	ID        string    `db:"id" json:"id"`
	OrderID   string    `db:"order_id" json:"orderId"`
	Status    string    `db:"status" json:"status"`
	Notes     string    `db:"notes" json:"notes"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// NewOrder creates an order in the initial RECEIVED state with a fresh
// tracking code. Totals are zero until computed from the item set.
func NewOrder(customerID string, orderType OrderType) *Order {
	now := GetCurrentTime()

	return &Order{
		ID:         GenerateID("ord"),
		TrackingID: GenerateTrackingID(),
		CustomerID: customerID,
		OrderType:  string(orderType),
		Status:     string(OrderStatusReceived),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewOrderItem creates a line item for the given order
func NewOrderItem(orderID, menuItemID string, quantity int, unitPrice float64, instructions *string) *OrderItem {
	return &OrderItem{
		ID:           GenerateID("itm"),
		OrderID:      orderID,
		MenuItemID:   menuItemID,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Instructions: instructions,
	}
}

// NewStatusHistory creates a history record, applying the default notes and
// actor when the caller supplies none.
func NewStatusHistory(orderID, status, notes, updatedBy string) *OrderStatusHistory {
	if notes == "" {
		notes = fmt.Sprintf("Status updated to %s", status)
	}
	if updatedBy == "" {
		updatedBy = "system"
	}

	return &OrderStatusHistory{
		ID:        GenerateID("hst"),
		OrderID:   orderID,
		Status:    status,
		Notes:     notes,
		UpdatedBy: updatedBy,
		Timestamp: GetCurrentTime(),
	}
}

// ComputeTotals recomputes the order's tax and total from the given item set.
// The computation is a pure function of the items, order type and delivery
// fee, so re-running it against the same inputs always yields the same
// totals.
func (o *Order) ComputeTotals(items []*OrderItem) {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	if o.OrderType == string(OrderTypeDelivery) {
		subtotal += o.DeliveryFee
	}

	o.TaxAmount = Round2(subtotal * TaxRate)
	o.TotalAmount = Round2(subtotal + o.TaxAmount)
}
