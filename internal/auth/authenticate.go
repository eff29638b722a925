package auth

import (
	"context"
	"errors"
	"file-panel/internal/models"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticate checks the identifier as a username first and then as an email
// address. Both failure modes return ErrInvalidCredentials so callers cannot
// tell which half was wrong.
func Authenticate(ctx context.Context, users UserFinder, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := users.GetUserByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if user == nil || !CheckPasswordHash(password, user.PasswordHash) {
		user, err = users.GetUserByEmail(ctx, identifier)
		if err != nil {
			return nil, err
		}
		if user == nil || !CheckPasswordHash(password, user.PasswordHash) {
			return nil, ErrInvalidCredentials
		}
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	return user, nil
}
