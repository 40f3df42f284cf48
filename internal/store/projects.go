package store

import (
	"context"
	"sync"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/permission"
)

// ProjectStore owns the project collection, newest first
type ProjectStore struct {
	mu       sync.RWMutex
	projects []model.Project

	gw    gateway.ProjectGateway
	roles RoleSource
	tasks *TaskStore
	log   *logger.Logger
	obs   observers
}

// NewProjectStore creates an empty store. tasks receives the local cascade
// when a project is deleted and may be nil.
func NewProjectStore(gw gateway.ProjectGateway, roles RoleSource, tasks *TaskStore, log *logger.Logger) *ProjectStore {
	if log == nil {
		log = logger.Default()
	}
	return &ProjectStore{
		gw:    gw,
		roles: roles,
		tasks: tasks,
		log:   log.WithFields(logger.F("store", "projects")),
	}
}

// Subscribe registers fn to be called after every local change
func (s *ProjectStore) Subscribe(fn func(Event)) {
	s.obs.subscribe(fn)
}

// Load replaces the collection with the gateway's listing
func (s *ProjectStore) Load(ctx context.Context) error {
	projects, err := s.gw.ListProjects(ctx)
	if err != nil {
		s.log.Warn("Failed to load projects", logger.F("error", err))
		return err
	}

	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()

	s.log.Debug("Projects loaded", logger.F("count", len(projects)))
	s.obs.emit(Event{Kind: ProjectsChanged, Op: "load"})
	return nil
}

// List returns a snapshot of the collection
func (s *ProjectStore) List() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Project(nil), s.projects...)
}

// Get returns the project with the given id
func (s *ProjectStore) Get(id string) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.projects[i], true
	}
	return model.Project{}, false
}

func (s *ProjectStore) indexOf(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Create persists a new project and inserts the stored result at the head
func (s *ProjectStore) Create(ctx context.Context, draft model.ProjectDraft) (model.Project, error) {
	if err := gate(s.roles, permission.CreateProject); err != nil {
		return model.Project{}, err
	}

	p, err := s.gw.CreateProject(ctx, draft)
	if err != nil {
		s.log.Warn("Create project failed", logger.F("name", draft.Name), logger.F("error", err))
		return model.Project{}, err
	}

	s.mu.Lock()
	s.projects = append([]model.Project{p}, s.projects...)
	s.mu.Unlock()

	s.log.Debug("Project created", logger.F("id", p.ID))
	s.obs.emit(Event{Kind: ProjectsChanged, Op: "create", ID: p.ID})
	return p, nil
}

// Update persists a patch and replaces the local copy with the stored result
func (s *ProjectStore) Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	if err := gate(s.roles, permission.EditProject); err != nil {
		return model.Project{}, err
	}

	p, err := s.gw.UpdateProject(ctx, id, patch)
	if err != nil {
		s.log.Warn("Update project failed", logger.F("id", id), logger.F("error", err))
		return model.Project{}, err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.projects[i] = p
	}
	s.mu.Unlock()

	s.log.Debug("Project updated", logger.F("id", id))
	s.obs.emit(Event{Kind: ProjectsChanged, Op: "update", ID: id})
	return p, nil
}

// Delete removes the project remotely, then locally, then drops its tasks
// from the task collection. The cascade is local only and not atomic with
// the remote delete.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	if err := gate(s.roles, permission.DeleteProject); err != nil {
		return err
	}

	if err := s.gw.DeleteProject(ctx, id); err != nil {
		s.log.Warn("Delete project failed", logger.F("id", id), logger.F("error", err))
		return err
	}

	s.mu.Lock()
	if i := s.indexOf(id); i >= 0 {
		s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
	}
	s.mu.Unlock()
	s.obs.emit(Event{Kind: ProjectsChanged, Op: "delete", ID: id})

	dropped := 0
	if s.tasks != nil {
		dropped = s.tasks.DropProject(id)
	}
	s.log.Debug("Project deleted", logger.F("id", id), logger.F("tasks_dropped", dropped))
	return nil
}
