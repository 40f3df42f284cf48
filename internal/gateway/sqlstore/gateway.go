package sqlstore

import (
	"context"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/model"
)

// Gateway is a gateway.Gateway acting as one user against the database
type Gateway struct {
	db     *DB
	userID string
}

var _ gateway.Gateway = (*Gateway)(nil)

// Gateway returns a gateway acting for userID
func (db *DB) Gateway(userID string) *Gateway {
	return &Gateway{db: db, userID: userID}
}

// ListProjects returns all projects newest first
func (g *Gateway) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := g.db.ListProjectRows(ctx)
	if err != nil {
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

// CreateProject inserts a project owned by the gateway's user
func (g *Gateway) CreateProject(ctx context.Context, draft model.ProjectDraft) (model.Project, error) {
	row, err := g.db.InsertProject(ctx, gateway.ProjectInsertFromDraft(draft, g.userID))
	if err != nil {
		return model.Project{}, gateway.Fail("create", "project", "", err)
	}
	p, err := gateway.ProjectFromRow(row)
	return p, gateway.Fail("create", "project", row.ID, err)
}

// UpdateProject writes the patched fields
func (g *Gateway) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	row, err := g.db.UpdateProjectRow(ctx, id, gateway.ProjectUpdateFromPatch(patch))
	if err != nil {
		return model.Project{}, gateway.Fail("update", "project", id, err)
	}
	p, err := gateway.ProjectFromRow(row)
	return p, gateway.Fail("update", "project", id, err)
}

// DeleteProject removes the project row only
func (g *Gateway) DeleteProject(ctx context.Context, id string) error {
	return gateway.Fail("delete", "project", id, g.db.DeleteProjectRow(ctx, id))
}

// ListTasks returns tasks newest first
func (g *Gateway) ListTasks(ctx context.Context, scope gateway.TaskScope) ([]model.Task, error) {
	rows, err := g.db.ListTaskRows(ctx, scope.ProjectID)
	if err != nil {
		return nil, gateway.Fail("list", "tasks", "", err)
	}
	now := g.db.now()
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
func (g *Gateway) CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	draft = draft.WithDefaults(g.db.now())
	row, err := g.db.InsertTask(ctx, gateway.TaskInsertFromDraft(draft))
	if err != nil {
		return model.Task{}, gateway.Fail("create", "task", "", err)
	}
	t, err := gateway.TaskFromRow(row, g.db.now())
	return t, gateway.Fail("create", "task", row.ID, err)
}

// UpdateTask writes only the patched fields
func (g *Gateway) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	row, err := g.db.UpdateTaskRow(ctx, id, gateway.TaskUpdateFromPatch(patch))
	if err != nil {
		return model.Task{}, gateway.Fail("update", "task", id, err)
	}
	t, err := gateway.TaskFromRow(row, g.db.now())
	return t, gateway.Fail("update", "task", id, err)
}

// DeleteTask removes a task
func (g *Gateway) DeleteTask(ctx context.Context, id string) error {
	return gateway.Fail("delete", "task", id, g.db.DeleteTaskRow(ctx, id))
}

// Profile returns the profile of the gateway's user
func (g *Gateway) Profile(ctx context.Context) (model.Profile, error) {
	u, err := g.db.GetUser(ctx, g.userID)
	if err != nil {
		return model.Profile{}, gateway.Fail("load", "profile", g.userID, err)
	}
	return u.Profile(), nil
}
