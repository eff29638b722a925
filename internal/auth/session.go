package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/jaevor/go-nanoid"
)

const (
	SessionCookieName = "panel_session"
	sessionTokenKey   = "token"
	sessionTokenSize  = 40
)

// NewCookieStore builds the signed cookie store that carries the opaque
// session token and flash messages.
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

func NewSessionToken() (string, error) {
	generateID, err := nanoid.Standard(sessionTokenSize)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return generateID(), nil
}

func SessionToken(session *sessions.Session) string {
	token, _ := session.Values[sessionTokenKey].(string)
	return token
}

func SetSessionToken(session *sessions.Session, token string) {
	session.Values[sessionTokenKey] = token
}

func ClearSessionToken(session *sessions.Session) {
	delete(session.Values, sessionTokenKey)
}
