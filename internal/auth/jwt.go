package auth

import (
	"file-panel/internal/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const AccessTokenTTL = 1 * time.Hour

type AppClaims struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	SessionID uuid.UUID `json:"sid"`
	jwt.RegisteredClaims
}

// GenerateJWT issues an access token bound to a server-side session.
func GenerateJWT(user *models.User, session *models.Session, secret string) (string, error) {
	expirationTime := time.Now().Add(AccessTokenTTL)
	if session.ExpiresAt.Before(expirationTime) {
		expirationTime = session.ExpiresAt
	}

	claims := &AppClaims{
		UserID:    user.ID,
		Username:  user.Username,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "file-panel",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func VerifyJWT(tokenString, secret string) (*AppClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AppClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
