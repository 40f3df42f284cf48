package model

import (
	"strings"
	"time"
)

// Project is a named container of tasks
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProjectDraft holds the fields a caller supplies when creating a project.
// Identity and creation time are assigned by the persistence boundary.
type ProjectDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate reports an empty name
func (d ProjectDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Message: "project name is required"}
	}
	return nil
}

// ProjectPatch is a partial update; nil fields are left unchanged
type ProjectPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate reports a patch that would blank the name
func (p ProjectPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Message: "project name cannot be empty"}
	}
	return nil
}

// IsEmpty returns true if the patch changes nothing
func (p ProjectPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil
}

// Apply returns a copy of the project with the patch applied
func (p ProjectPatch) Apply(project Project) Project {
	if p.Name != nil {
		project.Name = *p.Name
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
	return project
}
