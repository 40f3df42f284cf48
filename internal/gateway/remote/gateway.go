package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/model"
)

// ListProjects fetches every project, newest first
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var rows []gateway.ProjectRow
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects", nil, &rows); err != nil {
		return nil, gateway.Fail("list", "projects", "", err)
	}
	projects := make([]model.Project, 0, len(rows))
	for _, r := range rows {
		p, err := gateway.ProjectFromRow(r)
		if err != nil {
			return nil, gateway.Fail("list", "projects", "", err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// CreateProject inserts a project; the server assigns id and timestamp
func (c *Client) CreateProject(ctx context.Context, draft model.ProjectDraft) (model.Project, error) {
	var row gateway.ProjectRow
	body := gateway.ProjectInsertFromDraft(draft, c.config.UserID)
	if err := c.do(ctx, http.MethodPost, "/api/v1/projects", body, &row); err != nil {
		return model.Project{}, gateway.Fail("create", "project", "", err)
	}
	p, err := gateway.ProjectFromRow(row)
	return p, gateway.Fail("create", "project", row.ID, err)
}

// UpdateProject sends only the patched fields
func (c *Client) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	var row gateway.ProjectRow
	path := "/api/v1/projects/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, gateway.ProjectUpdateFromPatch(patch), &row); err != nil {
		return model.Project{}, gateway.Fail("update", "project", id, err)
	}
	p, err := gateway.ProjectFromRow(row)
	return p, gateway.Fail("update", "project", id, err)
}

// DeleteProject removes the project row
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/api/v1/projects/"+url.PathEscape(id), nil, nil)
	return gateway.Fail("delete", "project", id, err)
}

// ListTasks fetches tasks, newest first
func (c *Client) ListTasks(ctx context.Context, scope gateway.TaskScope) ([]model.Task, error) {
	path := "/api/v1/tasks"
	if scope.ProjectID != "" {
		path += "?project_id=" + url.QueryEscape(scope.ProjectID)
	}

	var rows []gateway.TaskRow
	if err := c.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, gateway.Fail("list", "tasks", "", err)
	}
	now := c.now()
	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		t, err := gateway.TaskFromRow(r, now)
		if err != nil {
			return nil, gateway.Fail("list", "tasks", "", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// CreateTask inserts a task
func (c *Client) CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	var row gateway.TaskRow
	body := gateway.TaskInsertFromDraft(draft.WithDefaults(c.now()))
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", body, &row); err != nil {
		return model.Task{}, gateway.Fail("create", "task", "", err)
	}
	t, err := gateway.TaskFromRow(row, c.now())
	return t, gateway.Fail("create", "task", row.ID, err)
}

// UpdateTask sends only the patched fields
func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	var row gateway.TaskRow
	path := "/api/v1/tasks/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, gateway.TaskUpdateFromPatch(patch), &row); err != nil {
		return model.Task{}, gateway.Fail("update", "task", id, err)
	}
	t, err := gateway.TaskFromRow(row, c.now())
	return t, gateway.Fail("update", "task", id, err)
}

// DeleteTask removes a task
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
	return gateway.Fail("delete", "task", id, err)
}

// Profile fetches the logged-in user's profile, including the role
func (c *Client) Profile(ctx context.Context) (model.Profile, error) {
	var p model.Profile
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &p); err != nil {
		return model.Profile{}, gateway.Fail("load", "profile", "", err)
	}
	return p, nil
}
