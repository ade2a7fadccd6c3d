// Package memory is the in-process store driver: a static credential roster
// and a mutex-guarded refresh-token registry. It is the default driver and
// the one every test uses.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Vikey-14/pokemon-api/internal/auth/domain"
	"github.com/Vikey-14/pokemon-api/internal/auth/store"
)

type Store struct {
	users map[string]domain.User

	mu     sync.RWMutex
	byUser map[string]domain.RefreshToken // one entry per username
	byHash map[string]string              // token fingerprint -> username
}

// NewStore builds a memory store over a fixed set of credential records.
// The roster is copied and never mutated afterwards, so reads need no lock.
func NewStore(users []domain.User) *Store {
	byName := make(map[string]domain.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	return &Store{
		users:  byName,
		byUser: make(map[string]domain.RefreshToken),
		byHash: make(map[string]string),
	}
}

func (s *Store) Credentials() store.Credentials     { return (*credentialsRepo)(s) }
func (s *Store) RefreshTokens() store.RefreshTokens { return (*refreshTokensRepo)(s) }

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close() error                   { return nil }

type credentialsRepo Store

func (r *credentialsRepo) GetUser(ctx context.Context, username string) (domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

type refreshTokensRepo Store

func (r *refreshTokensRepo) Put(ctx context.Context, t domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.replaceLocked(t)
	return nil
}

// replaceLocked overwrites the entry for t.Username and keeps the hash index
// consistent. The previous fingerprint is dropped, which is what makes the
// previous refresh token permanently unusable.
func (r *refreshTokensRepo) replaceLocked(t domain.RefreshToken) {
	if prev, ok := r.byUser[t.Username]; ok {
		delete(r.byHash, prev.TokenHash)
	}
	r.byUser[t.Username] = t
	r.byHash[t.TokenHash] = t.Username
}

func (r *refreshTokensRepo) GetByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	username, ok := r.byHash[hash]
	if !ok {
		return domain.RefreshToken{}, store.ErrNotFound
	}
	return r.byUser[username], nil
}

func (r *refreshTokensRepo) Replace(ctx context.Context, oldHash string, next domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Compare-and-swap keyed by the old fingerprint: if another rotation got
	// here first the fingerprint is gone and this rotation loses.
	if _, ok := r.byHash[oldHash]; !ok {
		return store.ErrNotFound
	}
	delete(r.byHash, oldHash)
	r.replaceLocked(next)
	return nil
}

func (r *refreshTokensRepo) Delete(ctx context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byUser[username]; ok {
		delete(r.byHash, prev.TokenHash)
		delete(r.byUser, username)
	}
	return nil
}

func (r *refreshTokensRepo) ListActive(ctx context.Context, now time.Time) ([]domain.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.RefreshToken, 0, len(r.byUser))
	for _, t := range r.byUser {
		if !t.Expired(now) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *refreshTokensRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for username, t := range r.byUser {
		if t.Expired(now) {
			delete(r.byHash, t.TokenHash)
			delete(r.byUser, username)
		}
	}
	return nil
}
