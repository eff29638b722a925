package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestSession(t *testing.T, userID int64, token string, expiresAt time.Time) uuid.UUID {
	id := uuid.New()
	err := testStore.CreateSession(context.Background(), CreateSessionParams{
		ID:        id,
		UserID:    userID,
		Token:     token,
		UserAgent: "go-test",
		ClientIP:  "127.0.0.1",
		ExpiresAt: expiresAt,
	})
	require.NoError(t, err)
	return id
}

func TestGetSessionUser(t *testing.T) {
	userID := createTestUser(t, "session_user", "")
	sessionID := createTestSession(t, userID, "token-valid", time.Now().Add(time.Hour))

	session, user, err := testStore.GetSessionUser(context.Background(), "token-valid")
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, sessionID, session.ID)
	require.Equal(t, "session_user", user.Username)

	session, user, err = testStore.GetSessionUserByID(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, userID, user.ID)

	session, _, err = testStore.GetSessionUser(context.Background(), "token-unknown")
	require.NoError(t, err)
	require.Nil(t, session)
}

func TestGetSessionUser_ExpiredOrDisabled(t *testing.T) {
	userID := createTestUser(t, "expired_user", "")
	createTestSession(t, userID, "token-expired", time.Now().Add(-time.Minute))

	session, _, err := testStore.GetSessionUser(context.Background(), "token-expired")
	require.NoError(t, err)
	require.Nil(t, session)

	disabledID := createTestUser(t, "disabled_session_user", "")
	createTestSession(t, disabledID, "token-disabled", time.Now().Add(time.Hour))
	require.NoError(t, testStore.SetUserActive(context.Background(), disabledID, false))

	session, _, err = testStore.GetSessionUser(context.Background(), "token-disabled")
	require.NoError(t, err)
	require.Nil(t, session)

	removed, err := testStore.DeleteExpiredSessions(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, removed, int64(1))
}

func TestDeleteSessions(t *testing.T) {
	userID := createTestUser(t, "logout_user", "")
	createTestSession(t, userID, "token-a", time.Now().Add(time.Hour))
	createTestSession(t, userID, "token-b", time.Now().Add(time.Hour))
	createTestSession(t, userID, "token-c", time.Now().Add(time.Hour))

	require.NoError(t, testStore.DeleteSessionByToken(context.Background(), "token-a"))
	session, _, err := testStore.GetSessionUser(context.Background(), "token-a")
	require.NoError(t, err)
	require.Nil(t, session)

	session, _, err = testStore.GetSessionUser(context.Background(), "token-b")
	require.NoError(t, err)
	require.NotNil(t, session)

	require.NoError(t, testStore.DeleteAllSessionsForUser(context.Background(), userID))
	for _, token := range []string{"token-b", "token-c"} {
		session, _, err := testStore.GetSessionUser(context.Background(), token)
		require.NoError(t, err)
		require.Nil(t, session)
	}
}
