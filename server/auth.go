package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/gateway/sqlstore"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/permission"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

// handleRegister handles user registration. The first account on an empty
// database becomes admin; later ones get the configured default role.
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	// Validate
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username, email, and password required")
	}

	if len(req.Password) < 8 {
		return errorJSON(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("bcrypt error", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	user, err := s.db.RegisterUser(c.Request().Context(), req.Username, req.Email, string(hash),
		string(permission.RoleAdmin), string(s.opts.DefaultRole))
	if errors.Is(err, sqlstore.ErrDuplicateUser) {
		return errorJSON(c, http.StatusConflict, "username already exists")
	}
	if err != nil {
		s.log.Error("Failed to create user", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	s.log.Info("User registered", logger.F("username", user.Username), logger.F("role", user.Role))
	return s.issueSession(c, user)
}

// handleLogin handles user login
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	// Find user
	user, err := s.db.GetUserByUsername(c.Request().Context(), strings.TrimSpace(req.Username))
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	s.log.Info("User logged in", logger.F("username", user.Username))
	return s.issueSession(c, user)
}

func (s *Server) issueSession(c echo.Context, user model.User) error {
	session, err := s.db.CreateSession(c.Request().Context(), user.ID, s.opts.SessionTTL)
	if err != nil {
		s.log.Error("Failed to create session", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		UserID:    user.ID,
	})
}

// handleMe returns the caller's profile, including the role
func (s *Server) handleMe(c echo.Context) error {
	user, err := s.db.GetUser(c.Request().Context(), c.Get(ctxUserID).(string))
	if errors.Is(err, gateway.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, user.Profile())
}

// handleLogout revokes the token used for the request
func (s *Server) handleLogout(c echo.Context) error {
	if err := s.db.DeleteSession(c.Request().Context(), c.Get(ctxToken).(string)); err != nil {
		s.log.Error("Failed to delete session", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}
