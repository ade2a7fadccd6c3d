package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Vikey-14/pokemon-api/pkg/jwtx"
	"github.com/Vikey-14/pokemon-api/pkg/slogx"
)

// AuthnMiddleware resolves the current user from the bearer access token and
// injects the identity into the request context. This is the single choke
// point every protected endpoint goes through: expired and malformed tokens
// are logged apart but both answer 401.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				if errors.Is(err, jwtx.ErrExpired) {
					log.Warn("access token expired")
					writeBearerError(w, "access token expired")
					return
				}
				log.Warn("access token rejected", "err", err)
				writeBearerError(w, "invalid access token")
				return
			}

			id := Identity{Username: claims.Subject, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, id)))
		})
	}
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	return token, token != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": desc,
	})
}
