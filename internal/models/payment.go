package models

import "time"

// PaymentStatus is the reconciliation state of a payment record.
type PaymentStatus string

const (
	// PaymentPending is the state at creation.
	PaymentPending PaymentStatus = "pending"
	// PaymentCompleted means the provider confirmed the money arrived and
	// the amount matched the order.
	PaymentCompleted PaymentStatus = "completed"
	// PaymentFailed marks a payment the provider rejected.
	PaymentFailed PaymentStatus = "failed"
)

// Payment is a local reconciliation record for one provider payment.
// TransactionID stays nil until the provider reference is known.
type Payment struct {
	ID            int64         `json:"id"`
	OrderID       int64         `json:"order_id"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	Currency      Currency      `json:"currency"`
	TransactionID *string       `json:"transaction_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// CreatePaymentRequest opens a pending payment for an order.
type CreatePaymentRequest struct {
	OrderID       int64   `json:"order_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"required,oneof=KRW USD"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

// UpdatePaymentStatusRequest moves a payment record to a new status.
type UpdatePaymentStatusRequest struct {
	PaymentID     int64         `json:"payment_id" validate:"required"`
	Status        PaymentStatus `json:"status" validate:"required,oneof=pending completed failed"`
	TransactionID string        `json:"transaction_id,omitempty"`
}

// CompletePaymentRequest reconciles a provider payment against a local
// order. PaymentID is the provider-side payment identifier used for the
// authoritative lookup.
type CompletePaymentRequest struct {
	PaymentID     string `json:"payment_id" validate:"required"`
	OrderID       int64  `json:"order_id" validate:"required"`
	TransactionID string `json:"transaction_id" validate:"required"`
}
