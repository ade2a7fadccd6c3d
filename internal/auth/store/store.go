package store

import (
	"context"
	"errors"
	"time"

	"github.com/Vikey-14/pokemon-api/internal/auth/domain"
)

// ErrNotFound is returned for missing users and for refresh lookups that
// match nothing, including tokens that were rotated away, which are
// deliberately indistinguishable from tokens that were never issued.
var ErrNotFound = errors.New("store: not found")

// Credentials is the read-only credential source consulted by login.
// Swappable between the seeded in-memory roster and a persistent user table.
type Credentials interface {
	// GetUser returns the credential record for a username, or ErrNotFound.
	GetUser(ctx context.Context, username string) (domain.User, error)
}

// RefreshTokens is the refresh-token registry. Implementations keep at most
// one entry per username; Put and Replace overwrite destructively.
type RefreshTokens interface {
	// Put writes the entry for t.Username, unconditionally discarding any
	// prior entry for that user. Called on login.
	Put(ctx context.Context, t domain.RefreshToken) error

	// GetByHash returns the entry whose token fingerprint equals hash.
	GetByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// Replace atomically swaps the entry currently fingerprinted oldHash for
	// next. It fails with ErrNotFound when no entry carries oldHash anymore,
	// which is how a rotation racing against another rotation of the same
	// token loses.
	Replace(ctx context.Context, oldHash string, next domain.RefreshToken) error

	// Delete removes the entry for a username. Deleting an absent entry is
	// not an error.
	Delete(ctx context.Context, username string) error

	// ListActive returns entries that have not expired at now.
	ListActive(ctx context.Context, now time.Time) ([]domain.RefreshToken, error)

	// DeleteExpired removes entries past their expiry. Housekeeping only:
	// expired entries are already rejected on read.
	DeleteExpired(ctx context.Context, now time.Time) error
}

// Store bundles the data access surface of one driver plus its lifecycle.
type Store interface {
	Credentials() Credentials
	RefreshTokens() RefreshTokens

	// Ping verifies the backing resource is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
