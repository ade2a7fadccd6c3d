package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Vikey-14/pokemon-api/pkg/authsdk"
)

// TestTrainerJourney walks the full happy path: login, identify yourself,
// rotate the refresh token, and confirm the consumed token is dead.
func TestTrainerJourney(t *testing.T) {
	client := setupAuthServer(t, testConfig())
	ctx := context.Background()

	pair, err := client.Login(ctx, trainerUsername, trainerPassword)
	require.NoError(t, err)
	require.Equal(t, "bearer", pair.TokenType)

	who, err := client.Whoami(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "You are ashketchum with role trainer", who.Message)

	rotated, err := client.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, rotated.AccessToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The consumed refresh token is gone for good.
	_, err = client.Refresh(ctx, pair.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidGrant)

	// The rotated-in pair works.
	who, err = client.Whoami(ctx, rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "You are ashketchum with role trainer", who.Message)

	_, err = client.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

// TestReloginInvalidatesOldSession covers logging in twice: the first
// session's refresh token stops working the moment the second login lands.
func TestReloginInvalidatesOldSession(t *testing.T) {
	client := setupAuthServer(t, testConfig())
	ctx := context.Background()

	first, err := client.Login(ctx, trainerUsername, trainerPassword)
	require.NoError(t, err)

	second, err := client.Login(ctx, trainerUsername, trainerPassword)
	require.NoError(t, err)

	_, err = client.Refresh(ctx, first.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidGrant)

	_, err = client.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

// TestLogout checks that logout severs the refresh chain while the access
// token lives out its natural lifetime.
func TestLogout(t *testing.T) {
	client := setupAuthServer(t, testConfig())
	ctx := context.Background()

	pair, err := client.Login(ctx, trainerUsername, trainerPassword)
	require.NoError(t, err)

	require.NoError(t, client.Logout(ctx, pair.AccessToken))

	_, err = client.Refresh(ctx, pair.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidGrant)

	_, err = client.Whoami(ctx, pair.AccessToken)
	require.NoError(t, err)
}

// TestSQLiteBackedFlow runs the trainer journey against the sqlite driver,
// where seeded passwords are argon2id-hashed instead of plaintext.
func TestSQLiteBackedFlow(t *testing.T) {
	client := setupAuthServer(t, sqliteConfig(t))
	ctx := context.Background()

	pair, err := client.Login(ctx, trainerUsername, trainerPassword)
	require.NoError(t, err)

	who, err := client.Whoami(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "You are ashketchum with role trainer", who.Message)

	rotated, err := client.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	_, err = client.Refresh(ctx, pair.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidGrant)

	_, err = client.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)

	_, err = client.Login(ctx, trainerUsername, "wrong-password")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
}
