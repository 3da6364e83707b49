// Package models contains the domain structures shared by the business
// services and the storage layer, plus the JSON request types handlers
// decode and validate before handing them to the services.
package models

import "time"

// UserRole separates regular accounts from admin accounts.
type UserRole string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser UserRole = "user"
	// RoleAdmin unlocks the admin routes.
	RoleAdmin UserRole = "admin"
)

// SubscriptionType is the entitlement state of an account.
type SubscriptionType string

const (
	// SubscriptionFree is a non-paying account.
	SubscriptionFree SubscriptionType = "free"
	// SubscriptionPremium is an account with an active premium window.
	SubscriptionPremium SubscriptionType = "premium"
)

// User is a registered account. PremiumEndDate is nil (or in the past) for
// accounts without an active entitlement; only the sweeper flips an expired
// premium account back to free.
type User struct {
	ID                   int64            `json:"id"`
	Email                string           `json:"email"`
	PasswordHash         string           `json:"-"`
	Nickname             string           `json:"nickname"`
	Role                 UserRole         `json:"role"`
	SubscriptionType     SubscriptionType `json:"subscription_type"`
	Point                int              `json:"point"`
	AnswerSubmittedCount int              `json:"answer_submitted_count"`
	PremiumStartDate     *time.Time       `json:"premium_start_date,omitempty"`
	PremiumEndDate       *time.Time       `json:"premium_end_date,omitempty"`
	UsedCoupons          []string         `json:"used_coupons,omitempty"`
	LastActive           *time.Time       `json:"last_active,omitempty"`
	LastLoginDate        *time.Time       `json:"last_login_date,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
}

// CreateAccountRequest is the registration payload. The email must have
// passed verification before the account is created.
type CreateAccountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
	Nickname string `json:"nickname" validate:"required,min=2,max=20"`
}

// LoginRequest is the credentials payload. RememberMe stretches the
// refresh token lifetime.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshRequest exchanges a refresh token for a fresh token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// EditProfileRequest updates profile fields. Nil means the field was
// absent from the request and must be left untouched.
type EditProfileRequest struct {
	Nickname *string `json:"nickname,omitempty" validate:"omitempty,min=2,max=20"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=64"`
}

// UpdateSubscriptionRequest extends the caller's own premium window.
type UpdateSubscriptionRequest struct {
	SubscriptionPeriod string `json:"subscription_period" validate:"required"`
}

// EditUserSubscriptionRequest is the admin override for any account's
// entitlement state.
type EditUserSubscriptionRequest struct {
	UserID           int64            `json:"user_id" validate:"required"`
	SubscriptionType SubscriptionType `json:"subscription_type" validate:"required,oneof=free premium"`
}

// SpendPointsRequest deducts points from a free account after an answer
// submission and records the statistics.
type SpendPointsRequest struct {
	PointsToDeduct int    `json:"points_to_deduct" validate:"required,gt=0"`
	TaskType       string `json:"task_type" validate:"required,oneof=answerSubmitted"`
}
