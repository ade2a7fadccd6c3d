// Package redis backs the refresh-token registry with Redis, for
// deployments where several instances share one registry. It covers only
// the registry: credentials still come from the memory or sqlite driver.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Vikey-14/pokemon-api/internal/auth/domain"
	"github.com/Vikey-14/pokemon-api/internal/auth/store"
)

const (
	userKeyPrefix = "refresh:user:"
	hashKeyPrefix = "refresh:hash:"
)

// Registry keeps one entry per username under refresh:user:<name>, plus a
// reverse index refresh:hash:<fingerprint> -> username for O(1) lookups by
// presented token. Both keys expire with the token, so housekeeping is
// Redis's job here.
type Registry struct {
	client *redis.Client
}

func NewRegistry(url string) (*Registry, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Registry{client: redis.NewClient(opts)}, nil
}

// NewRegistryWithClient wraps an existing client. Used by tests.
func NewRegistryWithClient(client *redis.Client) *Registry {
	return &Registry{client: client}
}

func (r *Registry) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Registry) Close() error { return r.client.Close() }

type record struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	TokenHash string    `json:"token_hash"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toRecord(t domain.RefreshToken) record {
	return record{
		ID:        t.ID,
		Username:  t.Username,
		TokenHash: t.TokenHash,
		IssuedAt:  t.IssuedAt,
		ExpiresAt: t.ExpiresAt,
	}
}

func (rec record) token() domain.RefreshToken {
	return domain.RefreshToken{
		ID:        rec.ID,
		Username:  rec.Username,
		TokenHash: rec.TokenHash,
		IssuedAt:  rec.IssuedAt,
		ExpiresAt: rec.ExpiresAt,
	}
}

func (r *Registry) Put(ctx context.Context, t domain.RefreshToken) error {
	return r.swap(ctx, t.Username, "", t)
}

func (r *Registry) GetByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	username, err := r.client.Get(ctx, hashKeyPrefix+hash).Result()
	if errors.Is(err, redis.Nil) {
		return domain.RefreshToken{}, store.ErrNotFound
	}
	if err != nil {
		return domain.RefreshToken{}, err
	}

	rec, err := r.get(ctx, username)
	if err != nil {
		return domain.RefreshToken{}, err
	}
	// The reverse index can briefly outlive a rotation; trust the entry.
	if rec.TokenHash != hash {
		return domain.RefreshToken{}, store.ErrNotFound
	}
	return rec.token(), nil
}

func (r *Registry) Replace(ctx context.Context, oldHash string, next domain.RefreshToken) error {
	return r.swap(ctx, next.Username, oldHash, next)
}

func (r *Registry) Delete(ctx context.Context, username string) error {
	key := userKeyPrefix + username

	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		rec, err := getTx(ctx, tx, username)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key, hashKeyPrefix+rec.TokenHash)
			return nil
		})
		return err
	}, key)
}

func (r *Registry) ListActive(ctx context.Context, now time.Time) ([]domain.RefreshToken, error) {
	var tokens []domain.RefreshToken

	iter := r.client.Scan(ctx, 0, userKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		if !now.After(rec.ExpiresAt) {
			tokens = append(tokens, rec.token())
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteExpired is a no-op: every key is written with a TTL, so Redis
// evicts expired entries on its own.
func (r *Registry) DeleteExpired(ctx context.Context, now time.Time) error {
	return nil
}

// swap installs next as the user's only entry. With expectHash empty it is
// an unconditional overwrite (login); otherwise it requires the current
// entry to still carry expectHash, turning concurrent rotations of the same
// token into exactly one winner.
func (r *Registry) swap(ctx context.Context, username, expectHash string, next domain.RefreshToken) error {
	key := userKeyPrefix + username

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := getTx(ctx, tx, username)
		switch {
		case errors.Is(err, store.ErrNotFound):
			if expectHash != "" {
				return store.ErrNotFound
			}
		case err != nil:
			return err
		case expectHash != "" && current.TokenHash != expectHash:
			return store.ErrNotFound
		}

		payload, err := json.Marshal(toRecord(next))
		if err != nil {
			return err
		}
		ttl := time.Until(next.ExpiresAt)
		if ttl <= 0 {
			ttl = time.Second
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if current.TokenHash != "" && current.TokenHash != next.TokenHash {
				pipe.Del(ctx, hashKeyPrefix+current.TokenHash)
			}
			pipe.Set(ctx, key, payload, ttl)
			pipe.Set(ctx, hashKeyPrefix+next.TokenHash, username, ttl)
			return nil
		})
		return err
	}, key)

	// A watched-key conflict means another writer got there first, which a
	// keyed rotation reports as a lost race.
	if errors.Is(err, redis.TxFailedErr) && expectHash != "" {
		return store.ErrNotFound
	}
	return err
}

func (r *Registry) get(ctx context.Context, username string) (record, error) {
	return decodeEntry(r.client.Get(ctx, userKeyPrefix+username).Result())
}

func getTx(ctx context.Context, tx *redis.Tx, username string) (record, error) {
	return decodeEntry(tx.Get(ctx, userKeyPrefix+username).Result())
}

func decodeEntry(raw string, err error) (record, error) {
	if errors.Is(err, redis.Nil) {
		return record{}, store.ErrNotFound
	}
	if err != nil {
		return record{}, err
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return record{}, err
	}
	return rec, nil
}
