package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

const (
	PaymentMethodCash   = "CASH"
	PaymentMethodStripe = "STRIPE"
)

// ParsePaymentStatus accepts only statuses a client may request directly.
// REFUNDED is reachable only through the refund operation.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return PaymentStatus(s), true
	}
	return "", false
}

// Payment is created atomically with its order; exactly one per order.
type Payment struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderID       uint          `gorm:"uniqueIndex;not null" json:"order_id"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Method        string        `gorm:"size:50;not null" json:"method"` // CASH, STRIPE
	Status        PaymentStatus `gorm:"type:VARCHAR(30);not null" json:"status"`
	TransactionID string        `gorm:"size:255" json:"transaction_id"`
	PaidAt        *time.Time    `json:"paid_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
