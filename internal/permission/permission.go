// Package permission maps a role to the fixed set of actions it may perform.
package permission

import (
	"fmt"
	"strings"
)

// Role is a user's access tier
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleCollaborator Role = "collaborator"
	RoleViewer       Role = "viewer"
)

// Roles returns every known role from most to least privileged
func Roles() []Role {
	return []Role{RoleAdmin, RoleCollaborator, RoleViewer}
}

// ParseRole validates a role tag
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := table[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Capabilities is the set of actions a role may perform
type Capabilities struct {
	CreateProjects bool `json:"canCreateProjects"`
	EditProjects   bool `json:"canEditProjects"`
	DeleteProjects bool `json:"canDeleteProjects"`
	CreateTasks    bool `json:"canCreateTasks"`
	EditTasks      bool `json:"canEditTasks"`
	DeleteTasks    bool `json:"canDeleteTasks"`
	ViewAll        bool `json:"canViewAll"`
}

var table = map[Role]Capabilities{
	RoleAdmin: {
		CreateProjects: true,
		EditProjects:   true,
		DeleteProjects: true,
		CreateTasks:    true,
		EditTasks:      true,
		DeleteTasks:    true,
		ViewAll:        true,
	},
	RoleCollaborator: {
		CreateProjects: true,
		EditProjects:   true,
		CreateTasks:    true,
		EditTasks:      true,
		DeleteTasks:    true,
		ViewAll:        true,
	},
	RoleViewer: {
		ViewAll: true,
	},
}

// For returns the capability set of a role. Unknown roles get nothing.
func For(r Role) Capabilities {
	return table[r]
}

// Action is a mutation guarded by a capability
type Action int

const (
	CreateProject Action = iota
	EditProject
	DeleteProject
	CreateTask
	EditTask
	DeleteTask
)

// String returns the human-readable form used in denial messages
func (a Action) String() string {
	switch a {
	case CreateProject:
		return "create projects"
	case EditProject:
		return "edit projects"
	case DeleteProject:
		return "delete projects"
	case CreateTask:
		return "create tasks"
	case EditTask:
		return "edit tasks"
	case DeleteTask:
		return "delete tasks"
	default:
		return "perform this action"
	}
}

// Allows reports whether the set grants the action
func (c Capabilities) Allows(a Action) bool {
	switch a {
	case CreateProject:
		return c.CreateProjects
	case EditProject:
		return c.EditProjects
	case DeleteProject:
		return c.DeleteProjects
	case CreateTask:
		return c.CreateTasks
	case EditTask:
		return c.EditTasks
	case DeleteTask:
		return c.DeleteTasks
	}
	return false
}

// DeniedError is returned when a role lacks the capability for an action
type DeniedError struct {
	Role   Role
	Action Action
}

func (e *DeniedError) Error() string {
	role := string(e.Role)
	if role == "" {
		role = "anonymous"
	}
	return fmt.Sprintf("permission denied: %s cannot %s", role, e.Action)
}

// Check returns a *DeniedError if the role may not perform the action
func Check(r Role, a Action) error {
	if For(r).Allows(a) {
		return nil
	}
	return &DeniedError{Role: r, Action: a}
}
