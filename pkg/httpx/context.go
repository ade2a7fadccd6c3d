package httpx

import "context"

// Identity is the resolved caller injected into the request context by
// AuthnMiddleware.
type Identity struct {
	Username string
	Role     string
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// ContextWithIdentity returns a context carrying the resolved identity.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the identity placed by AuthnMiddleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}
