// Package authsdk holds the wire types of the Pokédex auth service plus a
// small HTTP client for them. Server handlers and consuming services share
// these definitions so the contract cannot drift.
package authsdk

import "time"

// TokenPairResponse is the login and refresh endpoint response.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // always "bearer"
}

// LoginRequest is the JSON body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// WhoamiResponse echoes the resolved identity.
type WhoamiResponse struct {
	Message string `json:"message"`
}

// SessionInfo describes one live refresh-token session as reported by the
// admin sessions endpoint. The token itself is never exposed, only its
// fingerprint.
type SessionInfo struct {
	Username         string    `json:"username"`
	TokenFingerprint string    `json:"token_fingerprint"`
	IssuedAt         time.Time `json:"issued_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// SessionsResponse is the admin sessions listing.
type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

// LogoutResponse acknowledges a logout.
type LogoutResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error shape every failure returns: a stable
// machine-checkable code plus a human-readable description.
type ErrorResponse struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}
