package api

import (
	"encoding/json"
	"errors"
	"file-panel/internal/auth"
	"file-panel/internal/database"
	"file-panel/internal/models"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const adminPath = "/admin/"

type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"password123"`
}

type LoginResponse struct {
	Success     bool   `json:"success" example:"true"`
	Message     string `json:"message" example:"Login successful"`
	Redirect    string `json:"redirect,omitempty" example:"/admin/"`
	AccessToken string `json:"access_token,omitempty"`
}

// @Summary      Login page
// @Tags         auth
// @Produce      html
// @Success      200  {string}  string "Login form"
// @Success      302  {string}  string "Already logged in"
// @Router       /login/ [get]
func (s *Server) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	if principal, _ := s.resolvePrincipal(r); principal != nil {
		http.Redirect(w, r, adminPath, http.StatusFound)
		return
	}

	var flashes []string
	if cookie, err := s.sessions.Get(r, auth.SessionCookieName); err == nil {
		for _, f := range cookie.Flashes() {
			if msg, ok := f.(string); ok {
				flashes = append(flashes, msg)
			}
		}
		if len(flashes) > 0 {
			if err := cookie.Save(r, w); err != nil {
				s.logger.Warn("failed to clear flashes", zap.Error(err))
			}
		}
	}

	s.render(w, r, http.StatusOK, "login.html", pageData{Title: "Log in", Flashes: flashes})
}

// @Summary      Log in
// @Description  Authenticates with a username or email. Form posts are redirected to the dashboard; JSON clients also receive a Bearer access token tied to the session.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json,html
// @Param        loginRequest  body      LoginRequest  true  "Login credentials"
// @Success      200           {object}  LoginResponse
// @Failure      401           {object}  LoginResponse
// @Failure      429           {string}  string "Too Many Requests"
// @Router       /login/ [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	jsonRequest := isJSONBody(r)

	if principal, _ := s.resolvePrincipal(r); principal != nil {
		if jsonRequest {
			writeJSON(w, http.StatusOK, LoginResponse{Success: true, Message: "Already logged in", Redirect: adminPath})
			return
		}
		http.Redirect(w, r, adminPath, http.StatusFound)
		return
	}

	var req LoginRequest
	if jsonRequest {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, LoginResponse{Success: false, Message: "Invalid JSON data"})
			return
		}
	} else {
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}
	req.Username = strings.TrimSpace(req.Username)

	user, err := auth.Authenticate(r.Context(), s.store, req.Username, req.Password)
	if err != nil {
		var message string
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			message = "Invalid username or password"
		case errors.Is(err, auth.ErrAccountDisabled):
			message = "Your account is disabled"
		default:
			s.logger.Error("login lookup failed", zap.Error(err))
			message = "Login is temporarily unavailable"
		}
		s.loginFailed(w, r, jsonRequest, req.Username, message)
		return
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sessionParams := database.CreateSessionParams{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		UserAgent: r.UserAgent(),
		ClientIP:  r.RemoteAddr,
		ExpiresAt: time.Now().Add(time.Duration(s.config.Session.MaxAge) * time.Second),
	}
	if err := s.store.CreateSession(r.Context(), sessionParams); err != nil {
		s.logger.Error("failed to create session", zap.Int64("user_id", user.ID), zap.Error(err))
		s.writeError(w, r, err)
		return
	}

	cookie, _ := s.sessions.New(r, auth.SessionCookieName)
	auth.SetSessionToken(cookie, token)
	if err := cookie.Save(r, w); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	if !jsonRequest {
		http.Redirect(w, r, adminPath, http.StatusFound)
		return
	}

	session := &models.Session{ID: sessionParams.ID, UserID: user.ID, ExpiresAt: sessionParams.ExpiresAt}
	accessToken, err := auth.GenerateJWT(user, session, s.config.JWT.Secret)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{
		Success:     true,
		Message:     "Login successful",
		Redirect:    adminPath,
		AccessToken: accessToken,
	})
}

func (s *Server) loginFailed(w http.ResponseWriter, r *http.Request, jsonRequest bool, username, message string) {
	if jsonRequest {
		writeJSON(w, http.StatusUnauthorized, LoginResponse{Success: false, Message: message})
		return
	}

	// The flash is consumed by the form rendered below, so it is not persisted.
	s.render(w, r, http.StatusOK, "login.html", pageData{Title: "Log in", Flashes: []string{message}, Username: username})
}

// @Summary      Log out
// @Description  Ends the current session, or every session of the user with all=1.
// @Tags         auth
// @Param        all  query     bool  false  "End every session of the user"
// @Success      302  {string}  string "Redirect to /login/"
// @Router       /logout/ [get]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	principal, err := s.resolvePrincipal(r)
	if err != nil {
		s.logger.Error("failed to resolve session on logout", zap.Error(err))
	}

	if principal != nil {
		if r.URL.Query().Get("all") == "1" {
			err = s.store.DeleteAllSessionsForUser(r.Context(), principal.User.ID)
		} else {
			err = s.store.DeleteSessionByToken(r.Context(), principal.Session.Token)
		}
		if err != nil {
			s.logger.Error("failed to delete session", zap.Int64("user_id", principal.User.ID), zap.Error(err))
		}
	}

	if cookie, _ := s.sessions.Get(r, auth.SessionCookieName); cookie != nil {
		auth.ClearSessionToken(cookie)
		cookie.AddFlash("You have been logged out.")
		if err := cookie.Save(r, w); err != nil {
			s.logger.Warn("failed to clear session cookie", zap.Error(err))
		}
	}

	http.Redirect(w, r, "/login/", http.StatusFound)
}

func (s *Server) UnauthorizedHandler(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotAcceptable, "unauth.html", pageData{Title: "Unauthorized access"})
}
