package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vikey-14/pokemon-api/internal/auth/service"
	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
	"github.com/Vikey-14/pokemon-api/pkg/httpx"
	"github.com/Vikey-14/pokemon-api/pkg/slogx"
)

// LoginHandler serves POST /auth/login. Accepts a JSON body with username
// and password and returns a fresh token pair.
type LoginHandler struct {
	TokenService *service.TokenService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		slogx.FromContext(r.Context()).Error("login failed", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}
