// Package memory is a Gateway that keeps everything in process memory. It
// backs the ephemeral "memory" backend and doubles as a scriptable gateway in
// tests: calls are counted and any call can be made to fail or block.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/model"
	"github.com/google/uuid"
)

// ErrInjected is returned by calls selected with FailOn
var ErrInjected = errors.New("injected failure")

// Call names used by FailOn, CallCount and Hook
const (
	CallListProjects  = "ListProjects"
	CallCreateProject = "CreateProject"
	CallUpdateProject = "UpdateProject"
	CallDeleteProject = "DeleteProject"
	CallListTasks     = "ListTasks"
	CallCreateTask    = "CreateTask"
	CallUpdateTask    = "UpdateTask"
	CallDeleteTask    = "DeleteTask"
	CallProfile       = "Profile"
)

type projectRecord struct {
	project model.Project
	seq     int
}

type taskRecord struct {
	task model.Task
	seq  int
}

// Gateway is an in-memory gateway.Gateway
type Gateway struct {
	mu       sync.Mutex
	profile  model.Profile
	projects map[string]projectRecord
	tasks    map[string]taskRecord
	seq      int
	now      func() time.Time

	calls map[string]int
	fail  map[string]error
	hooks map[string]func(ctx context.Context)
}

// New creates an empty gateway acting for profile
func New(profile model.Profile) *Gateway {
	return &Gateway{
		profile:  profile,
		projects: make(map[string]projectRecord),
		tasks:    make(map[string]taskRecord),
		now:      time.Now,
		calls:    make(map[string]int),
		fail:     make(map[string]error),
		hooks:    make(map[string]func(ctx context.Context)),
	}
}

// SetClock replaces the clock used for creation timestamps and due-date defaults
func (g *Gateway) SetClock(now func() time.Time) {
	g.mu.Lock()
	g.now = now
	g.mu.Unlock()
}

// FailOn makes every following call named call return err (ErrInjected if nil)
// until Recover is called.
func (g *Gateway) FailOn(call string, err error) {
	if err == nil {
		err = ErrInjected
	}
	g.mu.Lock()
	g.fail[call] = err
	g.mu.Unlock()
}

// Recover clears a failure set with FailOn
func (g *Gateway) Recover(call string) {
	g.mu.Lock()
	delete(g.fail, call)
	g.mu.Unlock()
}

// Hook runs fn at the start of every call named call, outside the lock.
// A hook that blocks holds the caller until it returns.
func (g *Gateway) Hook(call string, fn func(ctx context.Context)) {
	g.mu.Lock()
	g.hooks[call] = fn
	g.mu.Unlock()
}

// CallCount returns how many times call has been made
func (g *Gateway) CallCount(call string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[call]
}

// SetRole changes the role reported by Profile
func (g *Gateway) SetRole(role string) {
	g.mu.Lock()
	g.profile.Role = role
	g.mu.Unlock()
}

// enter counts the call, runs its hook and returns its injected error
func (g *Gateway) enter(ctx context.Context, call string) error {
	g.mu.Lock()
	g.calls[call]++
	hook := g.hooks[call]
	g.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fail[call]
}

func (g *Gateway) next() int {
	g.seq++
	return g.seq
}

func (g *Gateway) ListProjects(ctx context.Context) ([]model.Project, error) {
	if err := g.enter(ctx, CallListProjects); err != nil {
		return nil, gateway.Fail("list", "project", "", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]projectRecord, 0, len(g.projects))
	for _, r := range g.projects {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })

	out := make([]model.Project, len(records))
	for i, r := range records {
		out[i] = r.project
	}
	return out, nil
}

func (g *Gateway) CreateProject(ctx context.Context, draft model.ProjectDraft) (model.Project, error) {
	if err := g.enter(ctx, CallCreateProject); err != nil {
		return model.Project{}, gateway.Fail("create", "project", "", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p := model.Project{
		ID:          uuid.New().String(),
		Name:        draft.Name,
		Description: draft.Description,
		CreatedAt:   g.now().UTC(),
	}
	g.projects[p.ID] = projectRecord{project: p, seq: g.next()}
	return p, nil
}

func (g *Gateway) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	if err := g.enter(ctx, CallUpdateProject); err != nil {
		return model.Project{}, gateway.Fail("update", "project", id, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.projects[id]
	if !ok {
		return model.Project{}, gateway.Fail("update", "project", id, gateway.ErrNotFound)
	}
	r.project = patch.Apply(r.project)
	g.projects[id] = r
	return r.project, nil
}

// DeleteProject removes only the project row; its tasks stay
func (g *Gateway) DeleteProject(ctx context.Context, id string) error {
	if err := g.enter(ctx, CallDeleteProject); err != nil {
		return gateway.Fail("delete", "project", id, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.projects[id]; !ok {
		return gateway.Fail("delete", "project", id, gateway.ErrNotFound)
	}
	delete(g.projects, id)
	return nil
}

func (g *Gateway) ListTasks(ctx context.Context, scope gateway.TaskScope) ([]model.Task, error) {
	if err := g.enter(ctx, CallListTasks); err != nil {
		return nil, gateway.Fail("list", "task", "", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]taskRecord, 0, len(g.tasks))
	for _, r := range g.tasks {
		if scope.ProjectID == "" || r.task.ProjectID == scope.ProjectID {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })

	out := make([]model.Task, len(records))
	for i, r := range records {
		out[i] = r.task.Clone()
	}
	return out, nil
}

func (g *Gateway) CreateTask(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	if err := g.enter(ctx, CallCreateTask); err != nil {
		return model.Task{}, gateway.Fail("create", "task", "", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	d := draft.WithDefaults(g.now())
	t := model.Task{
		ID:           uuid.New().String(),
		Title:        d.Title,
		Description:  d.Description,
		Priority:     d.Priority,
		DueDate:      model.Today(d.DueDate),
		AssignedUser: d.AssignedUser,
		Status:       d.Status,
		ProjectID:    d.ProjectID,
		Comments:     []model.Comment{},
	}
	g.tasks[t.ID] = taskRecord{task: t, seq: g.next()}
	return t.Clone(), nil
}

func (g *Gateway) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := g.enter(ctx, CallUpdateTask); err != nil {
		return model.Task{}, gateway.Fail("update", "task", id, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.tasks[id]
	if !ok {
		return model.Task{}, gateway.Fail("update", "task", id, gateway.ErrNotFound)
	}
	r.task = patch.Apply(r.task)
	g.tasks[id] = r
	return r.task.Clone(), nil
}

func (g *Gateway) DeleteTask(ctx context.Context, id string) error {
	if err := g.enter(ctx, CallDeleteTask); err != nil {
		return gateway.Fail("delete", "task", id, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.tasks[id]; !ok {
		return gateway.Fail("delete", "task", id, gateway.ErrNotFound)
	}
	delete(g.tasks, id)
	return nil
}

func (g *Gateway) Profile(ctx context.Context) (model.Profile, error) {
	if err := g.enter(ctx, CallProfile); err != nil {
		return model.Profile{}, gateway.Fail("get", "profile", "", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile, nil
}

// TaskStatus reads a stored task's status directly, bypassing counters
func (g *Gateway) TaskStatus(id string) (model.Status, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.tasks[id]
	if !ok {
		return "", fmt.Errorf("task %s: %w", id, gateway.ErrNotFound)
	}
	return r.task.Status, nil
}

var _ gateway.Gateway = (*Gateway)(nil)
