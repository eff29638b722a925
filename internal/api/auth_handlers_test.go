package api

import (
	"context"
	"file-panel/internal/auth"
	"file-panel/internal/database"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin_JSONInvalidCredentials(t *testing.T) {
	for _, body := range []string{
		`{"username":"nouser","password":"x"}`,
		`{"username":"` + testUsername + `","password":"wrong"}`,
	} {
		rr := serve(jsonRequest(t, http.MethodPost, "/login/", body), nil)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.JSONEq(t, `{"success":false,"message":"Invalid username or password"}`, rr.Body.String())
		require.Empty(t, rr.Result().Cookies())
	}
}

func TestLogin_JSONSuccessWithUsernameOrEmail(t *testing.T) {
	for _, identifier := range []string{testUsername, testEmail, strings.ToUpper(testEmail)} {
		rr := serve(jsonRequest(t, http.MethodPost, "/login/", LoginRequest{Username: identifier, Password: testPassword}), nil)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		resp := decodeBody[LoginResponse](t, rr)
		require.True(t, resp.Success)
		require.Equal(t, "Login successful", resp.Message)
		require.Equal(t, "/admin/", resp.Redirect)
		require.NotEmpty(t, resp.AccessToken)

		claims, err := auth.VerifyJWT(resp.AccessToken, testServer.config.JWT.Secret)
		require.NoError(t, err)
		require.Equal(t, testUsername, claims.Username)

		// The cookie and the bearer token both open the admin surface.
		req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
		req.Header.Set("Accept", "application/json")
		require.Equal(t, http.StatusOK, serve(req, rr.Result().Cookies()).Code)

		req = httptest.NewRequest(http.MethodGet, "/admin/", nil)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
		require.Equal(t, http.StatusOK, serve(req, nil).Code)
	}
}

func TestLogin_BearerTokenRejected(t *testing.T) {
	for _, header := range []string{"Bearer not-a-jwt", "Basic abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
		req.Header.Set("Authorization", header)
		rr := serve(req, nil)

		require.Equal(t, http.StatusFound, rr.Code, header)
		require.Equal(t, "/unauth/", rr.Header().Get("Location"))
	}
}

func TestLogin_FormFailureRerendersForm(t *testing.T) {
	form := url.Values{"username": {"nouser"}, "password": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := serve(req, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Invalid username or password")
	require.Contains(t, rr.Body.String(), `value="nouser"`)
}

func TestLogin_DisabledAccount(t *testing.T) {
	hash, err := auth.HashPassword("disabled-pass")
	require.NoError(t, err)
	_, _, err = testStore.EnsureUser(context.Background(), database.CreateUserParams{
		Username:     "disabled_user",
		PasswordHash: hash,
		IsActive:     false,
	})
	require.NoError(t, err)

	rr := serve(jsonRequest(t, http.MethodPost, "/login/", LoginRequest{Username: "disabled_user", Password: "disabled-pass"}), nil)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.JSONEq(t, `{"success":false,"message":"Your account is disabled"}`, rr.Body.String())

	// A wrong password does not reveal that the account exists.
	rr = serve(jsonRequest(t, http.MethodPost, "/login/", LoginRequest{Username: "disabled_user", Password: "nope"}), nil)
	require.JSONEq(t, `{"success":false,"message":"Invalid username or password"}`, rr.Body.String())
}

func TestLogin_AlreadyAuthenticated(t *testing.T) {
	cookies := loginCookies(t, testUsername, testPassword)

	rr := serve(httptest.NewRequest(http.MethodGet, "/login/", nil), cookies)
	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/admin/", rr.Header().Get("Location"))

	rr = serve(jsonRequest(t, http.MethodPost, "/login/", LoginRequest{Username: "whatever"}), cookies)
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, decodeBody[LoginResponse](t, rr).Success)
}

func TestLoginPage_Renders(t *testing.T) {
	rr := serve(httptest.NewRequest(http.MethodGet, "/login/", nil), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `name="username"`)
	require.Contains(t, rr.Body.String(), `name="password"`)
}

func TestLogout_EndsSession(t *testing.T) {
	cookies := loginCookies(t, testUsername, testPassword)

	rr := serve(httptest.NewRequest(http.MethodGet, "/logout/", nil), cookies)
	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/login/", rr.Header().Get("Location"))
	logoutCookies := rr.Result().Cookies()

	// The old cookie no longer resolves to a session.
	rr = serve(httptest.NewRequest(http.MethodGet, "/admin/", nil), cookies)
	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/unauth/", rr.Header().Get("Location"))

	// The login page shows the logout notice once.
	rr = serve(httptest.NewRequest(http.MethodGet, "/login/", nil), logoutCookies)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "You have been logged out.")
}

func TestLogout_AllSessions(t *testing.T) {
	first := loginCookies(t, testUsername, testPassword)
	second := loginCookies(t, testEmail, testPassword)

	rr := serve(httptest.NewRequest(http.MethodGet, "/logout/?all=1", nil), first)
	require.Equal(t, http.StatusFound, rr.Code)

	rr = serve(httptest.NewRequest(http.MethodGet, "/admin/", nil), second)
	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/unauth/", rr.Header().Get("Location"))
}
