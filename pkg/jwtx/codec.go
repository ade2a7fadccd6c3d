package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Verifier validates a token string and returns the claims if it is legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Codec signs and verifies HS256 access tokens with a single shared secret.
// There is deliberately no key rotation and no asymmetric mode here: every
// verifier is also the issuer, so a shared secret is the whole scheme.
type Codec struct {
	secret []byte
	issuer string

	// Now is the clock used when validating exp/nbf. Override in tests for
	// deterministic expiry behavior.
	Now func() time.Time
}

// NewCodec returns a Codec signing and verifying with the given shared
// secret. The issuer claim is stamped on signing and enforced on verify.
func NewCodec(secret []byte, issuer string) *Codec {
	return &Codec{
		secret: secret,
		issuer: issuer,
		Now:    time.Now,
	}
}

// Sign encodes the claims into a compact HS256 token. It fails only on an
// underlying serialization or MAC fault, which callers treat as fatal.
func (c *Codec) Sign(claims Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", errors.Join(ErrInvalidClaim, err)
	}
	return signed, nil
}

// Verify parses and validates a compact token. Expired tokens are reported
// as ErrExpired, every other failure mode (bad signature, wrong algorithm,
// malformed structure, missing subject or role) as a distinct sentinel so
// callers can log them apart before collapsing to a 401.
func (c *Codec) Verify(token string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return c.Now().UTC() }),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrMalformed
		default:
			return Claims{}, ErrInvalidClaim
		}
	}

	if claims.Subject == "" || claims.Role == "" {
		return Claims{}, ErrInvalidClaim
	}

	return claims, nil
}
