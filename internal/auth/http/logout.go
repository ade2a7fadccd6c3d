package http

import (
	"net/http"

	"github.com/Vikey-14/pokemon-api/internal/auth/service"
	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
	"github.com/Vikey-14/pokemon-api/pkg/httpx"
	"github.com/Vikey-14/pokemon-api/pkg/slogx"
)

// LogoutHandler serves POST /auth/logout. It drops the caller's refresh
// session; the access token used to call it stays valid until expiry.
type LogoutHandler struct {
	TokenService *service.TokenService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	if err := h.TokenService.Logout(r.Context(), id.Username); err != nil {
		slogx.FromContext(r.Context()).Error("logout failed", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LogoutResponse{
		Message: "Logged out successfully",
	})
}
