package models

import "time"

// OrderStatus is the lifecycle state of a purchase intent.
type OrderStatus string

const (
	// OrderPending is the state at creation.
	OrderPending OrderStatus = "pending"
	// OrderCompleted is reached only through a completing payment.
	OrderCompleted OrderStatus = "completed"
	// OrderCancelled marks an abandoned order.
	OrderCancelled OrderStatus = "cancelled"
)

// Currency restricts orders and payments to the supported currencies.
type Currency string

const (
	// KRW is South Korean won.
	KRW Currency = "KRW"
	// USD is US dollar.
	USD Currency = "USD"
)

// Order is a purchase intent owned by one user. Several payment rows may
// reference one order (retries), but at most one of them completes it.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	ProductID   int64       `json:"product_id"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	Currency    Currency    `json:"currency"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CreateOrderRequest opens a new pending order.
type CreateOrderRequest struct {
	ProductID   int64   `json:"product_id" validate:"required"`
	TotalAmount float64 `json:"total_amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"required,oneof=KRW USD"`
}

// UpdateOrderStatusRequest moves an order to a new status.
type UpdateOrderStatusRequest struct {
	OrderID int64       `json:"order_id" validate:"required"`
	Status  OrderStatus `json:"status" validate:"required,oneof=pending completed cancelled"`
}

// CapturePayPalOrderRequest captures a previously created provider order.
type CapturePayPalOrderRequest struct {
	ProviderOrderID string `json:"provider_order_id" validate:"required"`
}
