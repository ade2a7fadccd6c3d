package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Vikey-14/pokemon-api/internal/auth/domain"
	"github.com/Vikey-14/pokemon-api/internal/auth/store"
	"github.com/Vikey-14/pokemon-api/pkg/cryptox"
	"github.com/Vikey-14/pokemon-api/pkg/idx"
	"github.com/Vikey-14/pokemon-api/pkg/jwtx"
	"github.com/Vikey-14/pokemon-api/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrRefreshExpired     = errors.New("refresh_token_expired")
)

// TokenService issues and rotates token pairs. Every collaborator is
// injected so tests can pin the clock and the opaque-token source.
type TokenService struct {
	Credentials store.Credentials
	Registry    store.RefreshTokens
	Codec       *jwtx.Codec
	Passwords   cryptox.PasswordVerifier
	Issuer      string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration

	// Now defaults to time.Now; TokenSource to a crypto/rand opaque token.
	Now         func() time.Time
	TokenSource func() (string, error)
}

// Login verifies a username/password pair and, on success, issues a fresh
// token pair. The registry write is unconditional: any refresh token the
// user previously held stops working the moment a new login succeeds.
func (s *TokenService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	user, err := s.Credentials.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Unknown user and wrong password are indistinguishable to callers.
			l.Info("login failed", slog.String("username", username), slog.String("reason", "unknown_user"))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.Passwords.Verify(user.Password, password); err != nil {
		l.Info("login failed", slog.String("username", username), slog.String("reason", "bad_password"))
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.signAccess(user, now)
	if err != nil {
		return nil, err
	}

	refreshOpaque, entry, err := s.newRefreshEntry(user.Username, now)
	if err != nil {
		return nil, err
	}
	if err := s.Registry.Put(ctx, entry); err != nil {
		return nil, err
	}

	l.Info("login succeeded", slog.String("username", username), slog.String("role", string(user.Role)))

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		TokenType:    "bearer",
	}, nil
}

// Refresh trades a valid refresh token for a brand-new pair, destroying the
// presented token in the same step. Presenting a token that was already
// rotated away fails exactly like presenting one that never existed, which
// is what makes token theft after a rotation detectable.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Registry.GetByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("refresh rejected", slog.String("reason", "unknown_or_rotated"))
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	if rt.Expired(now) {
		l.Info("refresh rejected", slog.String("username", rt.Username), slog.String("reason", "expired"))
		return nil, ErrRefreshExpired
	}

	user, err := s.Credentials.GetUser(ctx, rt.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	accessToken, err := s.signAccess(user, now)
	if err != nil {
		return nil, err
	}

	newOpaque, next, err := s.newRefreshEntry(user.Username, now)
	if err != nil {
		return nil, err
	}

	// Keyed on the presented fingerprint: of two concurrent rotations of the
	// same token, exactly one lands here successfully.
	if err := s.Registry.Replace(ctx, fp, next); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("refresh rejected", slog.String("username", rt.Username), slog.String("reason", "lost_rotation_race"))
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	l.Info("refresh succeeded", slog.String("username", user.Username))

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newOpaque,
		TokenType:    "bearer",
	}, nil
}

// Logout drops the user's registry entry. Outstanding access tokens keep
// working until they expire; only the refresh chain is severed.
func (s *TokenService) Logout(ctx context.Context, username string) error {
	if err := s.Registry.Delete(ctx, username); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("logout", slog.String("username", username))
	return nil
}

// ActiveSessions lists the registry entries that are still live, one per
// logged-in user.
func (s *TokenService) ActiveSessions(ctx context.Context) ([]domain.RefreshToken, error) {
	return s.Registry.ListActive(ctx, s.now())
}

func (s *TokenService) signAccess(user domain.User, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(user.Username, string(user.Role), s.Issuer, s.AccessTTL, now)
	return s.Codec.Sign(claims)
}

func (s *TokenService) newRefreshEntry(username string, now time.Time) (string, domain.RefreshToken, error) {
	opaque, err := s.newOpaque()
	if err != nil {
		return "", domain.RefreshToken{}, err
	}

	return opaque, domain.RefreshToken{
		ID:        idx.New().String(),
		Username:  username,
		TokenHash: cryptox.FingerprintToken(opaque),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.RefreshTTL),
	}, nil
}

func (s *TokenService) newOpaque() (string, error) {
	if s.TokenSource != nil {
		return s.TokenSource()
	}
	return cryptox.GenerateToken(cryptox.TokenSize256)
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
