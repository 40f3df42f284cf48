// Package server exposes the projects and tasks collections over HTTP for
// the remote backend.
package server

import (
	"net/http"
	"time"

	"github.com/existflow/planify/internal/gateway/sqlstore"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/permission"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Options tune account handling
type Options struct {
	DefaultRole permission.Role // role given to new accounts after the first
	SessionTTL  time.Duration
	Logger      *logger.Logger
}

func (o Options) withDefaults() Options {
	if o.DefaultRole == "" {
		o.DefaultRole = permission.RoleViewer
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 30 * 24 * time.Hour
	}
	if o.Logger == nil {
		o.Logger = logger.Default()
	}
	return o
}

// Server is the planify API server
type Server struct {
	db   *sqlstore.DB
	opts Options
	log  *logger.Logger
	echo *echo.Echo
}

// New connects to PostgreSQL at dbURL and runs migrations
func New(dbURL string, opts Options) (*Server, error) {
	db, err := sqlstore.Open(sqlstore.DriverPostgres, dbURL)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db, opts), nil
}

// NewWithDB serves an already opened database
func NewWithDB(db *sqlstore.DB, opts Options) *Server {
	opts = opts.withDefaults()
	s := &Server{
		db:   db,
		opts: opts,
		log:  opts.Logger.WithFields(logger.F("component", "server")),
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(s.requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)

	protected.GET("/projects", s.handleListProjects)
	protected.POST("/projects", s.handleCreateProject, requireCapability(permission.CreateProject))
	protected.PATCH("/projects/:id", s.handleUpdateProject, requireCapability(permission.EditProject))
	protected.DELETE("/projects/:id", s.handleDeleteProject, requireCapability(permission.DeleteProject))

	protected.GET("/tasks", s.handleListTasks)
	protected.POST("/tasks", s.handleCreateTask, requireCapability(permission.CreateTask))
	protected.PATCH("/tasks/:id", s.handleUpdateTask, requireCapability(permission.EditTask))
	protected.DELETE("/tasks/:id", s.handleDeleteTask, requireCapability(permission.DeleteTask))

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}
