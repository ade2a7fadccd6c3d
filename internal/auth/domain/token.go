package domain

import "time"

// TokenPair is what login and refresh hand back: a short-lived signed access
// token and a long-lived opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "bearer"
}

// RefreshToken models one registry entry. At most one valid entry exists per
// username at any instant: login and rotation overwrite destructively, which
// is what makes a previously issued refresh token permanently unusable.
type RefreshToken struct {
	ID        string // ULID of this entry, for audit listings
	Username  string
	TokenHash string // SHA-256 fingerprint of the opaque token, never the raw value
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its expiry at the given instant.
func (t RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
