package http

import (
	"errors"
	"net/http"

	"github.com/Vikey-14/pokemon-api/internal/auth/service"
	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
	"github.com/Vikey-14/pokemon-api/pkg/httpx"
	"github.com/Vikey-14/pokemon-api/pkg/slogx"
)

// RefreshHandler serves POST /auth/refresh-token. The refresh token travels
// as the bearer credential; on success the presented token is dead and a
// new pair comes back.
type RefreshHandler struct {
	TokenService *service.TokenService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opaque, ok := httpx.BearerToken(r)
	if !ok {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), opaque)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh):
			authsdk.ErrInvalidRefresh.WriteError(w)
		case errors.Is(err, service.ErrRefreshExpired):
			authsdk.ErrRefreshExpired.WriteError(w)
		default:
			slogx.FromContext(r.Context()).Error("refresh failed", "error", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}
