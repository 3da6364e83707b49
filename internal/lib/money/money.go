// Package money normalizes monetary amounts to a fixed two-decimal string
// form so comparisons never depend on binary floating-point representation.
package money

import "strconv"

// Format renders an amount with exactly two decimal places, e.g. 100 ->
// "100.00", 99.989999 -> "99.99".
func Format(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// Equal reports whether two amounts agree at two-decimal precision.
func Equal(a, b float64) bool {
	return Format(a) == Format(b)
}
