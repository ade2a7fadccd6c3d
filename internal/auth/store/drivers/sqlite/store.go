// Package sqlite is the persistent store driver backing both the user table
// and the refresh-token registry with a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Vikey-14/pokemon-api/internal/auth/domain"
	"github.com/Vikey-14/pokemon-api/internal/auth/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Credentials() store.Credentials     { return &credentialsRepo{db: s.db} }
func (s *Store) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{db: s.db} }

// SeedUser upserts one credential record. The password must already be
// hashed in whatever form the configured verifier expects.
func (s *Store) SeedUser(ctx context.Context, u domain.User) error {
	return (&credentialsRepo{db: s.db}).CreateUser(ctx, u)
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
