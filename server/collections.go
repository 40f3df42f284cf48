package server

import (
	"net/http"
	"strings"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/labstack/echo/v4"
)

// storeError maps a store failure onto a response
func (s *Server) storeError(c echo.Context, op string, err error) error {
	if gateway.IsNotFound(err) {
		return errorJSON(c, http.StatusNotFound, "not found")
	}
	s.log.Error("Store failure", logger.F("op", op), logger.F("error", err))
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleListProjects(c echo.Context) error {
	rows, err := s.db.ListProjectRows(c.Request().Context())
	if err != nil {
		return s.storeError(c, "list projects", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var in gateway.ProjectInsert
	if err := c.Bind(&in); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	if strings.TrimSpace(in.Name) == "" {
		return errorJSON(c, http.StatusBadRequest, "name is required")
	}
	in.OwnerID = c.Get(ctxUserID).(string)

	row, err := s.db.InsertProject(c.Request().Context(), in)
	if err != nil {
		return s.storeError(c, "create project", err)
	}
	return c.JSON(http.StatusCreated, row)
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	var u gateway.ProjectUpdate
	if err := c.Bind(&u); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return errorJSON(c, http.StatusBadRequest, "name cannot be empty")
	}

	row, err := s.db.UpdateProjectRow(c.Request().Context(), c.Param("id"), u)
	if err != nil {
		return s.storeError(c, "update project", err)
	}
	return c.JSON(http.StatusOK, row)
}

// handleDeleteProject removes the project row only. Its tasks stay and the
// client drops them from its own state.
func (s *Server) handleDeleteProject(c echo.Context) error {
	if err := s.db.DeleteProjectRow(c.Request().Context(), c.Param("id")); err != nil {
		return s.storeError(c, "delete project", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListTasks(c echo.Context) error {
	rows, err := s.db.ListTaskRows(c.Request().Context(), c.QueryParam("project_id"))
	if err != nil {
		return s.storeError(c, "list tasks", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var in gateway.TaskInsert
	if err := c.Bind(&in); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	if msg := validateTaskInsert(in); msg != "" {
		return errorJSON(c, http.StatusBadRequest, msg)
	}

	row, err := s.db.InsertTask(c.Request().Context(), in)
	if err != nil {
		return s.storeError(c, "create task", err)
	}
	return c.JSON(http.StatusCreated, row)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var u gateway.TaskUpdate
	if err := c.Bind(&u); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	if msg := validateTaskUpdate(u); msg != "" {
		return errorJSON(c, http.StatusBadRequest, msg)
	}

	row, err := s.db.UpdateTaskRow(c.Request().Context(), c.Param("id"), u)
	if err != nil {
		return s.storeError(c, "update task", err)
	}
	return c.JSON(http.StatusOK, row)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.db.DeleteTaskRow(c.Request().Context(), c.Param("id")); err != nil {
		return s.storeError(c, "delete task", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func validateTaskInsert(in gateway.TaskInsert) string {
	switch {
	case strings.TrimSpace(in.ProjectID) == "":
		return "project_id is required"
	case strings.TrimSpace(in.Title) == "":
		return "title is required"
	case !model.Status(in.Status).Valid():
		return "invalid status"
	}
	if _, err := model.ParsePriority(in.Priority); err != nil {
		return "invalid priority"
	}
	if _, err := gateway.ParseDate(in.DueDate); err != nil {
		return "invalid due_date"
	}
	return ""
}

func validateTaskUpdate(u gateway.TaskUpdate) string {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return "title cannot be empty"
	}
	if u.Status != nil && !model.Status(*u.Status).Valid() {
		return "invalid status"
	}
	if u.Priority != nil {
		if _, err := model.ParsePriority(*u.Priority); err != nil {
			return "invalid priority"
		}
	}
	if u.DueDate != nil {
		if _, err := gateway.ParseDate(*u.DueDate); err != nil {
			return "invalid due_date"
		}
	}
	return ""
}
