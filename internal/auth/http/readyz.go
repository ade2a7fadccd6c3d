package http

import (
	"net/http"
	"time"

	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
	"github.com/Vikey-14/pokemon-api/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It pings the credential source and
// the refresh registry and reports per-dependency status; any failure flips
// the response to 503.
func ReadyzHandler(startTime time.Time, version string, credentials, registry Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Credentials: "ok",
			Registry:    "ok",
		}
		status := "ok"
		statusCode := http.StatusOK

		if err := credentials.Ping(r.Context()); err != nil {
			checks.Credentials = "error: " + err.Error()
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := registry.Ping(r.Context()); err != nil {
			checks.Registry = "error: " + err.Error()
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
