package database

import (
	"context"
	"errors"
	"file-panel/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateSessionParams struct {
	ID        uuid.UUID
	UserID    int64
	Token     string
	UserAgent string
	ClientIP  string
	ExpiresAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	query := `
		INSERT INTO sessions (id, user_id, token, user_agent, client_ip, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.db.Exec(ctx, query, arg.ID, arg.UserID, arg.Token, arg.UserAgent, arg.ClientIP, arg.ExpiresAt)
	return err
}

func scanSessionUser(row pgx.Row) (*models.Session, *models.User, error) {
	var session models.Session
	var user models.User
	err := row.Scan(
		&session.ID, &session.UserID, &session.Token, &session.UserAgent, &session.ClientIP,
		&session.ExpiresAt, &session.CreatedAt,
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsActive,
		&user.IsStaff, &user.IsSuperuser, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &session, &user, nil
}

// GetSessionUser resolves an opaque session token to its principal. Expired
// sessions and disabled accounts resolve to nothing.
func (q *Queries) GetSessionUser(ctx context.Context, token string) (*models.Session, *models.User, error) {
	if token == "" {
		return nil, nil, nil
	}
	query := `
		SELECT
			s.id, s.user_id, s.token, s.user_agent, s.client_ip, s.expires_at, s.created_at,
			u.id, u.username, u.email, u.password_hash, u.is_active, u.is_staff, u.is_superuser, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > NOW() AND u.is_active
	`
	return scanSessionUser(q.db.QueryRow(ctx, query, token))
}

func (q *Queries) GetSessionUserByID(ctx context.Context, sessionID uuid.UUID) (*models.Session, *models.User, error) {
	query := `
		SELECT
			s.id, s.user_id, s.token, s.user_agent, s.client_ip, s.expires_at, s.created_at,
			u.id, u.username, u.email, u.password_hash, u.is_active, u.is_staff, u.is_superuser, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1 AND s.expires_at > NOW() AND u.is_active
	`
	return scanSessionUser(q.db.QueryRow(ctx, query, sessionID))
}

func (q *Queries) DeleteSessionByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`
	_, err := q.db.Exec(ctx, query, token)
	return err
}

func (q *Queries) DeleteAllSessionsForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	_, err := q.db.Exec(ctx, query, userID)
	return err
}

func (q *Queries) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := q.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
