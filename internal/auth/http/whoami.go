package http

import (
	"fmt"
	"net/http"

	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
	"github.com/Vikey-14/pokemon-api/pkg/httpx"
)

// WhoamiHandler serves GET /auth/whoami, echoing the identity the access
// token resolved to. Sits behind AuthnMiddleware.
type WhoamiHandler struct{}

func (h *WhoamiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.WhoamiResponse{
		Message: fmt.Sprintf("You are %s with role %s", id.Username, id.Role),
	})
}
