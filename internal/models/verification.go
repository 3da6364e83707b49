package models

import "time"

// Verification is a short-lived email verification code: 6 digits, valid
// for 30 minutes, deleted after three failed attempts.
type Verification struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Verified  bool      `json:"verified"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// PasswordResetToken is a single-use reset credential: a UUID code tied to
// one user, valid for one hour, deleted on consumption.
type PasswordResetToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SendVerifyEmailRequest asks for a verification code to be mailed.
type SendVerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyEmailRequest checks a previously mailed code.
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest consumes a reset token and sets a new password.
type ResetPasswordRequest struct {
	Code     string `json:"code" validate:"required,uuid"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}
