package authsdk

import (
	"fmt"
	"net/http"

	"github.com/Vikey-14/pokemon-api/pkg/httpx"
)

// Stable error codes carried in the "error" field.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidGrant       = "invalid_grant"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeServerError        = "server_error"
)

// APIError is a structured error used both by the server (to write HTTP
// responses) and by the SDK client (to surface failures to callers).
type APIError struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the stable machine-checkable error code.
	Code string `json:"error"`

	// Description is a human-readable description of the error.
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Code:        e.Code,
		Description: e.Description,
	})
}

var (
	// ErrInvalidRequest is returned for malformed bodies or missing fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is the single login failure. The description
	// never says whether the username exists.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "Invalid credentials",
	}

	// ErrInvalidRefresh covers unknown and already-rotated refresh tokens.
	// Reuse of a rotated token is indistinguishable from a token that was
	// never issued.
	ErrInvalidRefresh = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidGrant,
		Description: "Invalid or expired refresh token",
	}

	// ErrRefreshExpired is a refresh token that matched the registry but has
	// passed its expiry.
	ErrRefreshExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidGrant,
		Description: "Refresh token expired",
	}

	// ErrUnauthorized is a missing or unresolvable identity.
	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "missing or invalid bearer token",
	}

	// ErrServerError hides internal failures behind a generic message.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
