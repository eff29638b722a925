package auth

import (
	"context"
	"file-panel/internal/models"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)

	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, password, hash)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	match := CheckPasswordHash(password, hash)
	require.True(t, match, "Password should match the hash")

	wrongPassword := "wrongPassword"
	match = CheckPasswordHash(wrongPassword, hash)
	require.False(t, match, "Wrong password should not match the hash")
}

func TestGenerateAndVerifyJWT(t *testing.T) {
	secret := "my_super_secret_key_for_testing"
	user := &models.User{
		ID:       123,
		Username: "testuser",
	}
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	tokenString, err := GenerateJWT(user, session, secret)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := VerifyJWT(tokenString, secret)
	require.NoError(t, err)
	require.NotNil(t, claims)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Username, claims.Username)
	require.Equal(t, session.ID, claims.SessionID)
	require.WithinDuration(t, time.Now().Add(AccessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)

	_, err = VerifyJWT(tokenString, "wrong_secret")
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrSignatureInvalid)

	expirationTime := time.Now().Add(-1 * time.Minute)
	claimsExpired := &AppClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}
	tokenExpired := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsExpired)
	tokenStringExpired, err := tokenExpired.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = VerifyJWT(tokenStringExpired, secret)
	require.Error(t, err)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestGenerateJWT_NeverOutlivesSession(t *testing.T) {
	session := &models.Session{ID: uuid.New(), ExpiresAt: time.Now().Add(10 * time.Minute)}

	tokenString, err := GenerateJWT(&models.User{ID: 1, Username: "u"}, session, "secret")
	require.NoError(t, err)

	claims, err := VerifyJWT(tokenString, "secret")
	require.NoError(t, err)
	require.WithinDuration(t, session.ExpiresAt, claims.ExpiresAt.Time, time.Second)
}

type fakeUsers struct {
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
}

func (f *fakeUsers) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.byUsername[username], nil
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[strings.ToLower(email)], nil
}

func newFakeUsers(t *testing.T) *fakeUsers {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	email := "admin@example.com"
	admin := &models.User{ID: 1, Username: "admin", Email: &email, PasswordHash: hash, IsActive: true}
	disabled := &models.User{ID: 2, Username: "ghost", PasswordHash: hash, IsActive: false}

	return &fakeUsers{
		byUsername: map[string]*models.User{"admin": admin, "ghost": disabled},
		byEmail:    map[string]*models.User{"admin@example.com": admin},
	}
}

func TestAuthenticate(t *testing.T) {
	users := newFakeUsers(t)
	ctx := context.Background()

	t.Run("username", func(t *testing.T) {
		user, err := Authenticate(ctx, users, "admin", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, int64(1), user.ID)
	})

	t.Run("email resolves to the same account", func(t *testing.T) {
		user, err := Authenticate(ctx, users, "Admin@Example.com", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, int64(1), user.ID)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		_, errWrong := Authenticate(ctx, users, "admin", "nope")
		_, errUnknown := Authenticate(ctx, users, "nouser", "x")
		require.ErrorIs(t, errWrong, ErrInvalidCredentials)
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Authenticate(ctx, users, "  ", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		_, err := Authenticate(ctx, users, "ghost", "correct-horse")
		require.ErrorIs(t, err, ErrAccountDisabled)

		_, err = Authenticate(ctx, users, "ghost", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestNewSessionToken(t *testing.T) {
	first, err := NewSessionToken()
	require.NoError(t, err)
	second, err := NewSessionToken()
	require.NoError(t, err)

	require.Len(t, first, sessionTokenSize)
	require.NotEqual(t, first, second)
}

func TestCookieStoreRoundTrip(t *testing.T) {
	store := NewCookieStore("0123456789abcdef0123456789abcdef", 3600, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	session, err := store.Get(req, SessionCookieName)
	require.NoError(t, err)
	SetSessionToken(session, "opaque-token")
	require.NoError(t, session.Save(req, rr))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	restored, err := store.Get(next, SessionCookieName)
	require.NoError(t, err)
	require.Equal(t, "opaque-token", SessionToken(restored))
}
