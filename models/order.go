package models

import "time"

type OrderStatus string

const (
	OrderStatusPendingConfirmation OrderStatus = "PENDING_CONFIRMATION" // placed, awaiting the shop
	OrderStatusPreparing           OrderStatus = "PREPARING"            // paid or confirmed, being baked
	OrderStatusShipping            OrderStatus = "SHIPPING"             // out for delivery
	OrderStatusDelivered           OrderStatus = "DELIVERED"            // terminal
	OrderStatusCancelled           OrderStatus = "CANCELLED"            // terminal
)

// orderTransitions is the only place order-state rules live. Handlers must not
// compare status strings themselves.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingConfirmation: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:           {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:            {OrderStatusDelivered},
	OrderStatusDelivered:           {},
	OrderStatusCancelled:           {},
}

// ParseOrderStatus maps a request string onto a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPendingConfirmation, OrderStatusPreparing, OrderStatusShipping,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// CanTransitionTo reports whether moving from s to next is a legal step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable is true only before the order leaves the kitchen.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPendingConfirmation || s == OrderStatusPreparing
}

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Code            string      `gorm:"uniqueIndex;not null" json:"code"`
	CustomerID      uint        `gorm:"not null;index" json:"customer_id"`
	Customer        User        `gorm:"foreignKey:CustomerID" json:"customer"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payment         *Payment    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment"`
	Status          OrderStatus `gorm:"type:VARCHAR(30);not null" json:"status"`
	TotalAmount     float64     `gorm:"not null" json:"total_amount"`
	ShippingFee     float64     `json:"shipping_fee"`
	ShippingAddress string      `gorm:"size:255" json:"shipping_address"`
	Note            string      `json:"note"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a frozen snapshot of the product at checkout time; historical
// orders stay stable when the catalog changes.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index;not null" json:"order_id"`
	ProductID    uint    `gorm:"not null" json:"product_id"`
	ProductName  string  `gorm:"not null" json:"product_name"`
	ProductImage string  `json:"product_image"`
	UnitPrice    float64 `gorm:"not null" json:"unit_price"`
	Quantity     int     `gorm:"not null" json:"quantity"`
	TotalPrice   float64 `gorm:"not null" json:"total_price"`
}
