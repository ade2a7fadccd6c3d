package httpx

import (
	"net/http"

	"github.com/Vikey-14/pokemon-api/pkg/slogx"
)

// RequireRole gates a handler on an exact role match. Roles are mutually
// exclusive tags, not a hierarchy: an admin calling a trainer-gated endpoint
// is rejected the same as the other way around. Must run after
// AuthnMiddleware.
func RequireRole(required string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id, ok := IdentityFromContext(ctx)
			if !ok {
				// Reaching here means the route was wired without
				// AuthnMiddleware; treat as unresolved identity.
				writeBearerError(w, "missing bearer token")
				return
			}

			if id.Role != required {
				slogx.FromContext(ctx).Warn("access denied",
					"username", id.Username,
					"role", id.Role,
					"required_role", required,
				)
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":             "forbidden",
					"error_description": "Forbidden: You are not authorized",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
