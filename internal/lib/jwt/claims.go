package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenTypeAccess marks tokens accepted by the API middleware.
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks tokens accepted only by the refresh endpoint.
	TokenTypeRefresh = "refresh"
)

// CustomClaims carries the authenticated user's identity inside a token.
// TokenType keeps access and refresh tokens from standing in for each
// other.
type CustomClaims struct {
	UserID     int64  `json:"user_id"`
	Role       string `json:"role"`
	TokenType  string `json:"token_type"`
	RememberMe bool   `json:"remember_me,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs an access token valid for the access TTL.
func (j *MakerImpl) GenerateAccessToken(userID int64, role string) (string, error) {
	return j.generate(userID, role, TokenTypeAccess, false, j.accessTTL)
}

// GenerateRefreshToken signs a refresh token. Remember-me logins get the
// long remember TTL so the session survives browser restarts.
func (j *MakerImpl) GenerateRefreshToken(userID int64, role string, rememberMe bool) (string, error) {
	ttl := j.accessTTL
	if rememberMe {
		ttl = j.rememberTTL
	}
	return j.generate(userID, role, TokenTypeRefresh, rememberMe, ttl)
}

func (j *MakerImpl) generate(userID int64, role, tokenType string, rememberMe bool, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserID:     userID,
		Role:       role,
		TokenType:  tokenType,
		RememberMe: rememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken parses a token, checks its signature and validity and returns
// the claims when the token is still good.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
