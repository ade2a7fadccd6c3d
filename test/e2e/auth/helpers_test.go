package auth_test

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Vikey-14/pokemon-api/internal/auth/app"
	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
	"github.com/Vikey-14/pokemon-api/pkg/jwtx"
)

/*
 * End-to-end tests for the auth service. The whole application is wired the
 * way main does it, then served in-process via httptest and driven through
 * the SDK client. Rate limits are disabled through the config so the tests
 * can hammer endpoints freely.
 */

const (
	trainerUsername = "ashketchum"
	trainerPassword = "pikapika"
	adminUsername   = "professoroak"
	adminPassword   = "pallet123"
)

func testConfig() app.Config {
	return app.Config{
		Issuer:               "pokemon-auth",
		AccessTTL:            jwtx.DefaultAccessTokenTTL,
		RefreshTTL:           jwtx.DefaultRefreshTokenTTL,
		StoreDriver:          app.StoreDriverMemory,
		RegistryDriver:       app.RegistryDriverStore,
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
		DisableRateLimits:    true,
	}
}

// setupAuthServer wires the application with the given config and serves it
// in-process. Returns an SDK client pointed at it.
func setupAuthServer(t *testing.T, cfg app.Config) *authsdk.Client {
	t.Helper()

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	return authsdk.NewClient(srv.URL)
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}

func sqliteConfig(t *testing.T) app.Config {
	t.Helper()

	cfg := testConfig()
	cfg.StoreDriver = app.StoreDriverSQLite
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "auth.db")
	return cfg
}
