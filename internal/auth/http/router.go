package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Vikey-14/pokemon-api/internal/auth/service"
	"github.com/Vikey-14/pokemon-api/pkg/httpx"
	"github.com/Vikey-14/pokemon-api/pkg/jwtx"
	"github.com/Vikey-14/pokemon-api/pkg/slogx"
)

// Pinger is the slice of a store driver the readiness probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	TokenService *service.TokenService

	// Readiness probes for the credential source and the refresh registry.
	// They may share one store or be distinct backends.
	CredentialsPing Pinger
	RegistryPing    Pinger

	// DisableRateLimits turns every rate-limit middleware into a pass-through.
	// Constructor-level so tests opt out explicitly instead of via env sniffing.
	DisableRateLimits bool
}

func NewRouter(verifier jwtx.Verifier, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/login - strict rate limit by IP (credential guessing)
	loginHandler := &LoginHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(loginHandler,
			r.rateLimit(httpx.RateLimitByIP(httpx.StrictLimit)),
		),
	)

	// POST /auth/refresh-token - strict rate limit by IP. The bearer
	// credential here is the refresh token itself, not an access token,
	// so no authn middleware.
	refreshHandler := &RefreshHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /auth/refresh-token",
		httpx.Chain(refreshHandler,
			r.rateLimit(httpx.RateLimitByIP(httpx.StrictLimit)),
		),
	)

	// GET /auth/whoami - authenticated, lenient rate limit by user
	r.Mux.Handle("GET /auth/whoami",
		httpx.Chain(&WhoamiHandler{},
			httpx.AuthnMiddleware(r.verifier),
			r.rateLimit(httpx.RateLimitByUser(httpx.LenientLimit)),
		),
	)

	// POST /auth/logout - authenticated, moderate rate limit by user
	logoutHandler := &LogoutHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(logoutHandler,
			httpx.AuthnMiddleware(r.verifier),
			r.rateLimit(httpx.RateLimitByUser(httpx.ModerateLimit)),
		),
	)

	// GET /auth/sessions - admin only, moderate rate limit by user
	sessionsHandler := &SessionsHandler{TokenService: r.TokenService}
	r.Mux.Handle("GET /auth/sessions",
		httpx.Chain(sessionsHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole("admin"),
			r.rateLimit(httpx.RateLimitByUser(httpx.ModerateLimit)),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.rateLimit(httpx.RateLimitByIP(httpx.LenientLimit)),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.CredentialsPing, r.RegistryPing),
			r.rateLimit(httpx.RateLimitByIP(httpx.LenientLimit)),
		),
	)
}

func (r *Router) rateLimit(mw httpx.Middleware) httpx.Middleware {
	if r.DisableRateLimits {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
