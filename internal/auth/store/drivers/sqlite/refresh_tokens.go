package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Vikey-14/pokemon-api/internal/auth/domain"
	"github.com/Vikey-14/pokemon-api/internal/auth/store"
)

type refreshTokensRepo struct {
	db *sql.DB
}

func (r *refreshTokensRepo) Put(ctx context.Context, t domain.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (username, id, token_hash, issued_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			id         = excluded.id,
			token_hash = excluded.token_hash,
			issued_at  = excluded.issued_at,
			expires_at = excluded.expires_at;
	`, t.Username, t.ID, t.TokenHash, t.IssuedAt.Unix(), t.ExpiresAt.Unix())
	return err
}

func (r *refreshTokensRepo) GetByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT username, id, token_hash, issued_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = ?;
	`, hash)
	return scanRefreshToken(row)
}

// Replace rotates in a single UPDATE keyed on the old fingerprint, so two
// rotations racing over the same token resolve in the database: exactly one
// matches a row, the other sees zero rows affected and gets ErrNotFound.
func (r *refreshTokensRepo) Replace(ctx context.Context, oldHash string, next domain.RefreshToken) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET id = ?, token_hash = ?, issued_at = ?, expires_at = ?
		WHERE token_hash = ? AND username = ?;
	`, next.ID, next.TokenHash, next.IssuedAt.Unix(), next.ExpiresAt.Unix(), oldHash, next.Username)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *refreshTokensRepo) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_tokens WHERE username = ?;
	`, username)
	return err
}

func (r *refreshTokensRepo) ListActive(ctx context.Context, now time.Time) ([]domain.RefreshToken, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT username, id, token_hash, issued_at, expires_at
		FROM refresh_tokens
		WHERE expires_at > ?
		ORDER BY username;
	`, now.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.RefreshToken
	for rows.Next() {
		t, err := scanRefreshToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *refreshTokensRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM refresh_tokens WHERE expires_at <= ?;
	`, now.Unix())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRefreshToken(row rowScanner) (domain.RefreshToken, error) {
	var (
		t       domain.RefreshToken
		issued  int64
		expires int64
	)
	if err := row.Scan(&t.Username, &t.ID, &t.TokenHash, &issued, &expires); err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	t.IssuedAt = time.Unix(issued, 0).UTC()
	t.ExpiresAt = time.Unix(expires, 0).UTC()
	return t, nil
}
