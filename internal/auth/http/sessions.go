package http

import (
	"net/http"

	"github.com/Vikey-14/pokemon-api/internal/auth/service"
	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
	"github.com/Vikey-14/pokemon-api/pkg/httpx"
	"github.com/Vikey-14/pokemon-api/pkg/slogx"
)

// SessionsHandler serves GET /auth/sessions, an admin listing of live
// refresh sessions. Sits behind AuthnMiddleware and RequireRole("admin").
type SessionsHandler struct {
	TokenService *service.TokenService
}

func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	active, err := h.TokenService.ActiveSessions(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("listing sessions failed", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	resp := authsdk.SessionsResponse{Sessions: make([]authsdk.SessionInfo, 0, len(active))}
	for _, t := range active {
		resp.Sessions = append(resp.Sessions, authsdk.SessionInfo{
			Username:         t.Username,
			TokenFingerprint: t.TokenHash,
			IssuedAt:         t.IssuedAt,
			ExpiresAt:        t.ExpiresAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
