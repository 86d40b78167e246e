package toolkit

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the checker can read from a login token without the
// signing key.
type TokenInfo struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// InspectToken decodes a JWT without verifying its signature. Opaque
// tokens return an error; callers treat that as informational only.
func InspectToken(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("parse token: %w", err)
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if v, ok := claims["email"].(string); ok {
		info.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		info.Role = v
	}
	return info, nil
}

// Expired reports whether the token carries an expiry that is before now.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(now)
}
