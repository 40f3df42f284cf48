// Package gateway defines the boundary between the in-memory project/task model
// and a remote store, along with the row shapes that store speaks.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/existflow/planify/internal/model"
)

// ErrNotFound is the cause of a PersistenceError when the target row does not exist
var ErrNotFound = errors.New("not found")

// TaskScope narrows a task listing. An empty ProjectID lists every task.
type TaskScope struct {
	ProjectID string
}

// ProjectGateway persists projects. Lists are newest first.
type ProjectGateway interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	CreateProject(ctx context.Context, draft model.ProjectDraft) (model.Project, error)
	UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// TaskGateway persists tasks. Lists are newest first.
type TaskGateway interface {
	ListTasks(ctx context.Context, scope TaskScope) ([]model.Task, error)
	CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// ProfileGateway returns the profile of the identity the gateway acts for
type ProfileGateway interface {
	Profile(ctx context.Context) (model.Profile, error)
}

// Gateway is the full persistence boundary
type Gateway interface {
	ProjectGateway
	TaskGateway
	ProfileGateway
}

// PersistenceError reports a failed call to the backing store.
// Gateways never retry; the first failure is returned.
type PersistenceError struct {
	Op     string // list, create, update, delete
	Entity string // project, task, profile
	ID     string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Fail wraps err as a *PersistenceError. It returns nil for a nil error and
// leaves an existing *PersistenceError untouched.
func Fail(op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Entity: entity, ID: id, Err: err}
}

// IsNotFound reports whether err was caused by a missing row
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
