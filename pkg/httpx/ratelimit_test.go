package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitByIP(t *testing.T) {
	t.Parallel()

	limited := Chain(okHandler(), RateLimitByIP(RateLimitConfig{
		RequestsPerWindow: 3,
		Window:            time.Minute,
		Burst:             3,
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	for range 3 {
		require.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
	}
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5000"))

	// A different client is unaffected.
	require.Equal(t, http.StatusOK, do("10.0.0.2:5000"))
}

func TestRateLimitExceededResponse(t *testing.T) {
	t.Parallel()

	limited := Chain(okHandler(), RateLimitByIP(RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.1.1.1:9999"

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:1234"
	require.Equal(t, "192.0.2.10", IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	require.Equal(t, "198.51.100.7", IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.4, 198.51.100.7")
	require.Equal(t, "203.0.113.4", IPKeyExtractor(req))
}
