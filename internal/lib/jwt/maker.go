// Package jwt implements generation and parsing of the bearer tokens used
// by the auth boundary: short-lived access tokens and refresh tokens whose
// lifetime depends on the remember-me flag picked at login.
package jwt

import (
	"time"
)

// Maker describes generation and parsing of signed tokens.
type Maker interface {
	// GenerateAccessToken issues a token that authenticates the user for
	// the configured access TTL.
	GenerateAccessToken(userID int64, role string) (string, error)
	// GenerateRefreshToken issues a refresh token. With rememberMe the
	// remember TTL applies, otherwise the access TTL.
	GenerateRefreshToken(userID int64, role string, rememberMe bool) (string, error)
	// ParseToken verifies a token's signature and expiry and returns its claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker with an HMAC secret and configurable TTLs.
type MakerImpl struct {
	secretKey   string
	accessTTL   time.Duration
	rememberTTL time.Duration
}

// NewMaker creates a MakerImpl from the signing secret and token lifetimes.
func NewMaker(secretKey string, accessTTL, rememberTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:   secretKey,
		accessTTL:   accessTTL,
		rememberTTL: rememberTTL,
	}
}
