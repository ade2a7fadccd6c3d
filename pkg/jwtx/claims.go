package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default token TTL constants. Short-lived access tokens limit the damage of
// a leaked bearer token; the refresh TTL bounds how long a session can stay
// alive without re-authenticating.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Claims are the access-token claims used across the service. The subject is
// the username; role is the single coarse authorization tag checked by
// protected endpoints.
type Claims struct {
	jwt.RegisteredClaims

	// Role the user authenticated with ("trainer", "admin").
	Role string `json:"role,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for an access token issued
// at now. The jti makes every issued token unique even when subject, role and
// timestamps collide across rapid re-issuance.
func NewAccessClaims(subject, role, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role: role,
	}
}

// NewJTI returns a random identifier for the "jti" claim.
func NewJTI() string {
	return uuid.NewString()
}
