package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/permission"
	"github.com/google/uuid"
)

// TaskFilter narrows List. Zero values match everything.
type TaskFilter struct {
	ProjectID string
	Status    model.Status
}

func (f TaskFilter) match(t *model.Task) bool {
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

// TaskStore owns the task collection
type TaskStore struct {
	mu    sync.RWMutex
	tasks []model.Task

	gw    gateway.TaskGateway
	roles RoleSource
	now   func() time.Time
	newID func() string
	log   *logger.Logger
	obs   observers
}

// NewTaskStore creates an empty store
func NewTaskStore(gw gateway.TaskGateway, roles RoleSource, log *logger.Logger) *TaskStore {
	if log == nil {
		log = logger.Default()
	}
	return &TaskStore{
		gw:    gw,
		roles: roles,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
		log:   log.WithFields(logger.F("store", "tasks")),
	}
}

// SetClock replaces the clock used for due-date defaults and comment timestamps
func (s *TaskStore) SetClock(now func() time.Time) {
	s.now = now
}

// Subscribe registers fn to be called after every local change
func (s *TaskStore) Subscribe(fn func(Event)) {
	s.obs.subscribe(fn)
}

// Load replaces the tasks inside scope with the gateway's listing. Tasks
// outside the scope are kept. Comment threads of tasks that survive the
// reload are carried over, since comments exist only in memory.
func (s *TaskStore) Load(ctx context.Context, scope gateway.TaskScope) error {
	fetched, err := s.gw.ListTasks(ctx, scope)
	if err != nil {
		s.log.Warn("Failed to load tasks", logger.F("project", scope.ProjectID), logger.F("error", err))
		return err
	}

	s.mu.Lock()
	threads := make(map[string][]model.Comment)
	kept := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if scope.ProjectID == "" || t.ProjectID == scope.ProjectID {
			if len(t.Comments) > 0 {
				threads[t.ID] = t.Comments
			}
			continue
		}
		kept = append(kept, t)
	}
	for _, t := range fetched {
		if c, ok := threads[t.ID]; ok {
			t.Comments = c
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	s.mu.Unlock()

	s.log.Debug("Tasks loaded", logger.F("project", scope.ProjectID), logger.F("count", len(fetched)))
	s.obs.emit(Event{Kind: TasksChanged, Op: "load"})
	return nil
}

// List returns copies of the tasks matching the filter
func (s *TaskStore) List(filter TaskFilter) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Task{}
	for i := range s.tasks {
		if filter.match(&s.tasks[i]) {
			out = append(out, s.tasks[i].Clone())
		}
	}
	return out
}

// Get returns a copy of the task with the given id
func (s *TaskStore) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

func (s *TaskStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Create persists a new task and appends the stored result
func (s *TaskStore) Create(ctx context.Context, draft model.TaskDraft) (model.Task, error) {
	if err := gate(s.roles, permission.CreateTask); err != nil {
		return model.Task{}, err
	}

	t, err := s.gw.CreateTask(ctx, draft.WithDefaults(s.now()))
	if err != nil {
		s.log.Warn("Create task failed", logger.F("title", draft.Title), logger.F("error", err))
		return model.Task{}, err
	}
	if t.Comments == nil {
		t.Comments = []model.Comment{}
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	s.log.Debug("Task created", logger.F("id", t.ID), logger.F("project", t.ProjectID))
	s.obs.emit(Event{Kind: TasksChanged, Op: "create", ID: t.ID})
	return t.Clone(), nil
}

// Update persists a patch and replaces the local task's persisted fields with
// the stored result. The local comment thread is kept.
func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := gate(s.roles, permission.EditTask); err != nil {
		return model.Task{}, err
	}

	t, err := s.gw.UpdateTask(ctx, id, patch)
	if err != nil {
		s.log.Warn("Update task failed", logger.F("id", id), logger.F("error", err))
		return model.Task{}, err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		t.Comments = s.tasks[i].Comments
		s.tasks[i] = t
	}
	s.mu.Unlock()

	s.log.Debug("Task updated", logger.F("id", id))
	s.obs.emit(Event{Kind: TasksChanged, Op: "update", ID: id})
	return t.Clone(), nil
}

// Delete removes the task remotely, then locally
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if err := gate(s.roles, permission.DeleteTask); err != nil {
		return err
	}

	if err := s.gw.DeleteTask(ctx, id); err != nil {
		s.log.Warn("Delete task failed", logger.F("id", id), logger.F("error", err))
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	}
	s.mu.Unlock()

	s.log.Debug("Task deleted", logger.F("id", id))
	s.obs.emit(Event{Kind: TasksChanged, Op: "delete", ID: id})
	return nil
}

// Move changes a task's status optimistically.
//
// The new status is written locally before the gateway is called, so readers
// see the task in its new column immediately. Only the status field is sent.
// If the gateway fails, the status (and nothing else) is restored to its
// previous value, unless a later change has already replaced the optimistic
// value, and the gateway error is returned. On success the optimistic value
// stands.
func (s *TaskStore) Move(ctx context.Context, id string, status model.Status) error {
	if err := gate(s.roles, permission.EditTask); err != nil {
		return err
	}
	if !status.Valid() {
		return &model.ValidationError{Field: "status", Message: fmt.Sprintf("invalid status %q", status)}
	}

	prev, err := s.applyStatus(id, status)
	if err != nil {
		return err
	}
	s.obs.emit(Event{Kind: TasksChanged, Op: "move", ID: id})

	_, err = s.gw.UpdateTask(ctx, id, model.StatusPatch(status))
	if err == nil {
		s.log.Debug("Task moved", logger.F("id", id), logger.F("from", prev), logger.F("to", status))
		return nil
	}

	reverted := s.revertStatus(id, status, prev)
	s.log.Warn("Move failed, status rolled back",
		logger.F("id", id),
		logger.F("from", prev),
		logger.F("to", status),
		logger.F("reverted", reverted),
		logger.F("error", err))
	if reverted {
		s.obs.emit(Event{Kind: TasksChanged, Op: "revert", ID: id})
	}
	return err
}

// applyStatus writes the optimistic status and returns the one it replaced
func (s *TaskStore) applyStatus(id string, status model.Status) (model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return "", fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	prev := s.tasks[i].Status
	s.tasks[i].Status = status
	return prev, nil
}

// revertStatus restores prev if the task still holds the optimistic value
func (s *TaskStore) revertStatus(id string, optimistic, prev model.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || s.tasks[i].Status != optimistic {
		return false
	}
	s.tasks[i].Status = prev
	return true
}

// AddComment appends a comment to a task's thread. Comments are kept in
// memory only.
func (s *TaskStore) AddComment(taskID, text, author string) (model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, &model.ValidationError{Field: "text", Message: "comment cannot be empty"}
	}

	c := model.Comment{
		ID:        s.newID(),
		Text:      text,
		Author:    author,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	i := s.indexOf(taskID)
	if i < 0 {
		s.mu.Unlock()
		return model.Comment{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	s.tasks[i].Comments = append(s.tasks[i].Comments, c)
	s.mu.Unlock()

	s.obs.emit(Event{Kind: TasksChanged, Op: "comment", ID: taskID})
	return c, nil
}

// DropProject removes every local task of a project and returns how many
// were removed. The gateway is not called.
func (s *TaskStore) DropProject(projectID string) int {
	s.mu.Lock()
	kept := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ProjectID != projectID {
			kept = append(kept, t)
		}
	}
	dropped := len(s.tasks) - len(kept)
	s.tasks = kept
	s.mu.Unlock()

	if dropped > 0 {
		s.obs.emit(Event{Kind: TasksChanged, Op: "cascade", ID: projectID})
	}
	return dropped
}
