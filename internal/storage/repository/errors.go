package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by the repository. Services match them with
// errors.Is and translate them into user-facing messages.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateEmail       = errors.New("email already in use")
	ErrDuplicateNickname    = errors.New("nickname already in use")
	ErrCouponNotFound       = errors.New("coupon not found or inactive")
	ErrCouponExpired        = errors.New("coupon has expired")
	ErrCouponAlreadyUsed    = errors.New("coupon has already been used")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrVerificationNotFound = errors.New("verification not found")
	ErrResetTokenNotFound   = errors.New("reset token not found or expired")
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint violation
// on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}
