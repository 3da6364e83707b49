package models

import "time"

// Coupon is a redeemable code. IsActive is global, not per user: the first
// successful redemption deactivates the coupon for everyone. A nil
// ExpirationDate means the coupon never expires.
type Coupon struct {
	ID             int64      `json:"id"`
	Code           string     `json:"code"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}

// RedeemCouponRequest consumes a coupon code for the calling user.
type RedeemCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// CreateCouponRequest is the admin payload for a new coupon. The
// expiration date is optional; an absent date means the coupon never
// expires.
type CreateCouponRequest struct {
	Code           string     `json:"code" validate:"required,min=3,max=64"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// UpdateCouponRequest partially edits a coupon. Nil fields stay untouched.
type UpdateCouponRequest struct {
	Code           *string    `json:"code,omitempty" validate:"omitempty,min=3,max=64"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
}
