package database

import (
	"context"
	"errors"
	"file-panel/internal/models"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, is_active, is_staff, is_superuser, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(q.db.QueryRow(ctx, query, username))
}

// GetUserByEmail matches the address case-insensitively.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) ORDER BY id LIMIT 1`
	return scanUser(q.db.QueryRow(ctx, query, email))
}

type CreateUserParams struct {
	Username     string
	Email        *string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
}

// EnsureUser inserts the account unless one with the same username already
// exists. It reports whether a new row was created and is safe to run repeatedly.
func (q *Queries) EnsureUser(ctx context.Context, arg CreateUserParams) (*models.User, bool, error) {
	if strings.TrimSpace(arg.Username) == "" {
		return nil, false, fmt.Errorf("ensure user: empty username")
	}

	query := `
		INSERT INTO users (username, email, password_hash, is_active, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (username) DO NOTHING
		RETURNING ` + userColumns

	user, err := scanUser(q.db.QueryRow(ctx, query,
		arg.Username,
		arg.Email,
		arg.PasswordHash,
		arg.IsActive,
		arg.IsStaff,
		arg.IsSuperuser,
	))
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		return user, true, nil
	}

	existing, err := q.GetUserByUsername(ctx, arg.Username)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (q *Queries) SetUserActive(ctx context.Context, userID int64, active bool) error {
	_, err := q.db.Exec(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, userID)
	return err
}

func (q *Queries) UpdateUserPassword(ctx context.Context, userID int64, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	_, err := q.db.Exec(ctx, query, newPasswordHash, userID)
	return err
}
