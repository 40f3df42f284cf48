package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/permission"
	"github.com/labstack/echo/v4"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxToken  = "token"
)

// requestLogger logs every request and its outcome
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		s.log.Debug("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", req.RemoteAddr))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		s.log.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))

		return nil
	}
}

// authMiddleware checks for a valid session token and loads the caller's
// current role, so a role change applies to the next request
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Get token from Authorization header
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return errorJSON(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return errorJSON(c, http.StatusUnauthorized, "invalid authorization format")
		}

		ctx := c.Request().Context()
		session, err := s.db.GetSession(ctx, token)
		if err != nil {
			return errorJSON(c, http.StatusUnauthorized, "invalid token")
		}
		if session.IsExpired(s.db.Now()) {
			return errorJSON(c, http.StatusUnauthorized, "token expired")
		}

		user, err := s.db.GetUser(ctx, session.UserID)
		if errors.Is(err, gateway.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "invalid token")
		}
		if err != nil {
			s.log.Error("Failed to load user", logger.F("user_id", session.UserID), logger.F("error", err))
			return errorJSON(c, http.StatusInternalServerError, "internal error")
		}

		c.Set(ctxUserID, user.ID)
		c.Set(ctxRole, permission.Role(user.Role))
		c.Set(ctxToken, token)
		return next(c)
	}
}

// requireCapability rejects callers whose role does not grant action
func requireCapability(action permission.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ctxRole).(permission.Role)
			if err := permission.Check(role, action); err != nil {
				return errorJSON(c, http.StatusForbidden, err.Error())
			}
			return next(c)
		}
	}
}
