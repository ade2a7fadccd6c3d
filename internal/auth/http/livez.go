package http

import (
	"net/http"
	"time"

	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
	"github.com/Vikey-14/pokemon-api/pkg/httpx"
)

// LivezHandler is the liveness probe: 200 whenever the process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}
