// Package period contains the premium window arithmetic shared by the
// subscription ledger, the coupon engine and their tests.
package period

import (
	"errors"
	"time"
)

// Period is a billing period for a premium grant.
type Period string

const (
	// Monthly extends the premium window by 30 days.
	Monthly Period = "MONTHLY"
	// Yearly extends the premium window by one calendar year.
	Yearly Period = "YEARLY"
)

// ErrInvalidPeriod is returned for any value outside the period enum.
var ErrInvalidPeriod = errors.New("invalid subscription period")

// Parse validates a raw period string.
func Parse(raw string) (Period, error) {
	switch Period(raw) {
	case Monthly, Yearly:
		return Period(raw), nil
	default:
		return "", ErrInvalidPeriod
	}
}

// Extend computes the new premium end date. The base is the current end
// date when it is still strictly in the future, otherwise now: renewing an
// active window never shortens it.
func Extend(current *time.Time, now time.Time, p Period) (time.Time, error) {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	switch p {
	case Monthly:
		return base.AddDate(0, 0, 30), nil
	case Yearly:
		return base.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, ErrInvalidPeriod
	}
}
