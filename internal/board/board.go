// Package board coordinates the project and task stores for a presentation
// layer. It validates input, keeps track of the project whose board is open,
// resolves drag-and-drop gestures into moves, and reports the outcome of every
// command as a Notification.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/store"
)

// UnknownProjectName labels tasks whose project is not loaded
const UnknownProjectName = "Unknown project"

// Identity is the signed-in user as the board sees it
type Identity interface {
	store.RoleSource
	DisplayName() string
}

// Column is one status lane of the board
type Column struct {
	Status model.Status
	Tasks  []model.Task
}

// Position locates a card on the board
type Position struct {
	Status model.Status
	Index  int
}

// Drop is a finished drag gesture. Destination is nil when the card was
// released outside any column.
type Drop struct {
	TaskID      string
	Source      Position
	Destination *Position
}

// Board is the coordination layer
type Board struct {
	projects *store.ProjectStore
	tasks    *store.TaskStore
	profiles gateway.ProfileGateway
	who      Identity
	notifier Notifier
	log      *logger.Logger

	mu       sync.RWMutex
	selected string
}

// New wires a board over gw. notifier may be nil.
func New(gw gateway.Gateway, who Identity, notifier Notifier, log *logger.Logger) *Board {
	if notifier == nil {
		notifier = discard{}
	}
	if log == nil {
		log = logger.Default()
	}
	tasks := store.NewTaskStore(gw, who, log)
	return &Board{
		projects: store.NewProjectStore(gw, who, tasks, log),
		tasks:    tasks,
		profiles: gw,
		who:      who,
		notifier: notifier,
		log:      log.WithFields(logger.F("component", "board")),
	}
}

// ProjectStore returns the project store
func (b *Board) ProjectStore() *store.ProjectStore { return b.projects }

// TaskStore returns the task store
func (b *Board) TaskStore() *store.TaskStore { return b.tasks }

// Subscribe registers fn for changes in either store
func (b *Board) Subscribe(fn func(store.Event)) {
	b.projects.Subscribe(fn)
	b.tasks.Subscribe(fn)
}

func (b *Board) notify(kind Kind, format string, args ...any) {
	b.notifier.Notify(Notification{Kind: kind, Message: fmt.Sprintf(format, args...), Duration: DefaultDuration})
}

func (b *Board) fail(err error, fallback string) error {
	b.notify(KindError, "%s", failureMessage(err, fallback))
	b.log.Debug("Command failed", logger.F("message", fallback), logger.F("error", err))
	return err
}

// LoadAll fetches every project and every task
func (b *Board) LoadAll(ctx context.Context) error {
	if err := b.projects.Load(ctx); err != nil {
		return b.fail(err, "Failed to load projects")
	}
	if err := b.tasks.Load(ctx, gateway.TaskScope{}); err != nil {
		return b.fail(err, "Failed to load tasks")
	}
	return nil
}

// refresher is an Identity that can re-read its profile
type refresher interface {
	Refresh(ctx context.Context, profiles gateway.ProfileGateway) error
}

// Reload re-reads the signed-in profile, so a role changed elsewhere applies
// from here on, then reloads every project and task
func (b *Board) Reload(ctx context.Context) error {
	if r, ok := b.who.(refresher); ok {
		if err := r.Refresh(ctx, b.profiles); err != nil {
			return b.fail(err, "Failed to refresh your profile")
		}
	}
	if err := b.LoadAll(ctx); err != nil {
		return err
	}
	b.notify(KindInfo, "Reloaded")
	return nil
}

// CreateProject validates and creates a project
func (b *Board) CreateProject(ctx context.Context, name, description string) (model.Project, error) {
	draft := model.ProjectDraft{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := draft.Validate(); err != nil {
		return model.Project{}, b.fail(err, "Failed to save project")
	}

	p, err := b.projects.Create(ctx, draft)
	if err != nil {
		return model.Project{}, b.fail(err, "Failed to save project")
	}
	b.notify(KindSuccess, "Project %q created", p.Name)
	return p, nil
}

// EditProject validates and applies a patch
func (b *Board) EditProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	if err := patch.Validate(); err != nil {
		return model.Project{}, b.fail(err, "Failed to save project")
	}

	p, err := b.projects.Update(ctx, id, patch)
	if err != nil {
		return model.Project{}, b.fail(err, "Failed to save project")
	}
	b.notify(KindSuccess, "Project %q updated", p.Name)
	return p, nil
}

// DeleteProject removes a project and its local tasks, closing its board
// if it was open
func (b *Board) DeleteProject(ctx context.Context, id string) error {
	name := b.ProjectName(id)
	if err := b.projects.Delete(ctx, id); err != nil {
		return b.fail(err, "Failed to delete project")
	}

	b.mu.Lock()
	if b.selected == id {
		b.selected = ""
	}
	b.mu.Unlock()

	b.notify(KindInfo, "Project %q deleted", name)
	return nil
}

// ViewProjectBoard opens a project's board and reloads its tasks. The board
// stays open when the reload fails.
func (b *Board) ViewProjectBoard(ctx context.Context, id string) error {
	if _, ok := b.projects.Get(id); !ok {
		return b.fail(fmt.Errorf("project %s: %w", id, store.ErrNotFound), "Project not found")
	}

	b.mu.Lock()
	b.selected = id
	b.mu.Unlock()

	if err := b.tasks.Load(ctx, gateway.TaskScope{ProjectID: id}); err != nil {
		return b.fail(err, "Failed to load tasks")
	}
	return nil
}

// BackToProjects closes the open board
func (b *Board) BackToProjects() {
	b.mu.Lock()
	b.selected = ""
	b.mu.Unlock()
}

// Selected returns the open project, if any
func (b *Board) Selected() (model.Project, bool) {
	b.mu.RLock()
	id := b.selected
	b.mu.RUnlock()
	if id == "" {
		return model.Project{}, false
	}
	return b.projects.Get(id)
}

// CreateTask validates and creates a task in projectID
func (b *Board) CreateTask(ctx context.Context, projectID string, draft model.TaskDraft) (model.Task, error) {
	draft.ProjectID = strings.TrimSpace(projectID)
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	if err := draft.Validate(); err != nil {
		return model.Task{}, b.fail(err, "Please select a project and enter a task title")
	}

	t, err := b.tasks.Create(ctx, draft)
	if err != nil {
		return model.Task{}, b.fail(err, "Failed to create task")
	}
	b.notify(KindSuccess, "Task created successfully")
	return t, nil
}

// EditTask validates and applies a patch
func (b *Board) EditTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	if err := patch.Validate(); err != nil {
		return model.Task{}, b.fail(err, "Failed to update task")
	}

	t, err := b.tasks.Update(ctx, id, patch)
	if err != nil {
		return model.Task{}, b.fail(err, "Failed to update task")
	}
	b.notify(KindSuccess, "Task updated successfully")
	return t, nil
}

// DeleteTask removes a task
func (b *Board) DeleteTask(ctx context.Context, id string) error {
	if err := b.tasks.Delete(ctx, id); err != nil {
		return b.fail(err, "Failed to delete task")
	}
	b.notify(KindSuccess, "Task deleted successfully")
	return nil
}

// MoveTask moves a task to another column. The task shows in its new column
// at once and returns to the old one if the change cannot be saved.
func (b *Board) MoveTask(ctx context.Context, id string, status model.Status) error {
	prev, _ := b.tasks.Get(id)
	if err := b.tasks.Move(ctx, id, status); err != nil {
		fallback := "Failed to move task"
		if prev.ID != "" && !isLocal(err) {
			fallback = fmt.Sprintf("Failed to move %q, it was returned to %s", prev.Title, prev.Status)
		}
		return b.fail(err, fallback)
	}
	return nil
}

// isLocal reports an error raised before the gateway was reached
func isLocal(err error) bool {
	var pe *gateway.PersistenceError
	return !errors.As(err, &pe)
}

// HandleDrop resolves a drag gesture. Dropping outside any column or back
// onto the starting slot does nothing.
func (b *Board) HandleDrop(ctx context.Context, d Drop) error {
	if d.Destination == nil || *d.Destination == d.Source {
		return nil
	}
	return b.MoveTask(ctx, d.TaskID, d.Destination.Status)
}

// AddComment appends a comment authored by the signed-in user
func (b *Board) AddComment(taskID, text string) (model.Comment, error) {
	c, err := b.tasks.AddComment(taskID, text, b.who.DisplayName())
	if err != nil {
		return model.Comment{}, b.fail(err, "Failed to add comment")
	}
	b.notify(KindSuccess, "Comment added")
	return c, nil
}

// Projects lists projects newest first
func (b *Board) Projects() []model.Project {
	return b.projects.List()
}

// Tasks lists tasks matching filter
func (b *Board) Tasks(filter store.TaskFilter) []model.Task {
	return b.tasks.List(filter)
}

// Columns groups tasks by status in board order. With a board open only its
// tasks are included, otherwise every task is.
func (b *Board) Columns() []Column {
	b.mu.RLock()
	filter := store.TaskFilter{ProjectID: b.selected}
	b.mu.RUnlock()

	statuses := model.Statuses()
	cols := make([]Column, len(statuses))
	index := make(map[model.Status]int, len(statuses))
	for i, s := range statuses {
		cols[i] = Column{Status: s, Tasks: []model.Task{}}
		index[s] = i
	}
	for _, t := range b.tasks.List(filter) {
		if i, ok := index[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}

// ProjectName returns the name of a loaded project or UnknownProjectName
func (b *Board) ProjectName(id string) string {
	if p, ok := b.projects.Get(id); ok {
		return p.Name
	}
	return UnknownProjectName
}

// Stats summarizes every loaded project and task
type Stats struct {
	Projects   int
	Tasks      int
	Done       int
	Pending    int
	Overdue    int
	ByPriority map[model.Priority]int
}

// Stats counts tasks by completion and priority. Overdue uses now.
func (b *Board) Stats(now time.Time) Stats {
	st := Stats{
		Projects:   len(b.projects.List()),
		ByPriority: make(map[model.Priority]int),
	}
	for _, t := range b.tasks.List(store.TaskFilter{}) {
		st.Tasks++
		if t.Status == model.StatusDone {
			st.Done++
		}
		if t.IsOverdue(now) {
			st.Overdue++
		}
		st.ByPriority[t.Priority]++
	}
	st.Pending = st.Tasks - st.Done
	return st
}
