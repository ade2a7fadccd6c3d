package sqlite

import (
	"context"
	"database/sql"

	"github.com/Vikey-14/pokemon-api/internal/auth/domain"
)

type credentialsRepo struct {
	db *sql.DB
}

func (r *credentialsRepo) GetUser(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT username, password_hash, role
		FROM users
		WHERE username = ?;
	`, username)

	var u domain.User
	if err := row.Scan(&u.Username, &u.Password, &u.Role); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

// CreateUser inserts a credential record, or refreshes its password hash and
// role when the username already exists. Used for seeding the roster.
func (r *credentialsRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = excluded.password_hash,
			role          = excluded.role;
	`, u.Username, u.Password, u.Role)
	return err
}
