package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
)

// TestLoginRateLimit leaves rate limiting on and hammers the login endpoint
// until the strict per-IP limit trips.
func TestLoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.DisableRateLimits = false
	client := setupAuthServer(t, cfg)
	ctx := context.Background()

	var limited bool
	for range 20 {
		_, err := client.Login(ctx, trainerUsername, "wrong-password")
		var apiErr *authsdk.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatal("strict rate limit never tripped across 20 login attempts")
	}
}
