package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vikey-14/pokemon-api/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

const testIssuer = "pokemon-auth"

func signToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()

	codec := jwtx.NewCodec(testSecret, testIssuer)
	token, err := codec.Sign(jwtx.NewAccessClaims("ashketchum", role, testIssuer, ttl, time.Now().UTC()))
	require.NoError(t, err)
	return token
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"username": id.Username, "role": id.Role})
	})
}

func TestAuthnMiddleware(t *testing.T) {
	t.Parallel()

	codec := jwtx.NewCodec(testSecret, testIssuer)
	handler := Chain(echoIdentity(), AuthnMiddleware(codec))

	t.Run("valid token resolves identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "trainer", time.Hour))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "ashketchum")
		require.Contains(t, rec.Body.String(), "trainer")
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
		req.Header.Set("Authorization", "Bearer faketoken123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid access token")
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "trainer", -time.Minute))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "access token expired")
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/whoami", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	codec := jwtx.NewCodec(testSecret, testIssuer)
	adminOnly := Chain(echoIdentity(), AuthnMiddleware(codec), RequireRole("admin"))

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/sessions", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "admin", time.Hour))
		rec := httptest.NewRecorder()

		adminOnly.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other role is forbidden despite valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/sessions", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "trainer", time.Hour))
		rec := httptest.NewRecorder()

		adminOnly.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "Forbidden")
	})

	t.Run("no hierarchy: admin rejected from trainer gate", func(t *testing.T) {
		trainerOnly := Chain(echoIdentity(), AuthnMiddleware(codec), RequireRole("trainer"))

		req := httptest.NewRequest(http.MethodGet, "/team", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "admin", time.Hour))
		rec := httptest.NewRecorder()

		trainerOnly.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated request is 401 not 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/sessions", nil)
		rec := httptest.NewRecorder()

		adminOnly.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
