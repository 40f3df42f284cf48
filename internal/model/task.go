package model

import (
	"fmt"
	"strings"
	"time"
)

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority accepts the display name in any case
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority %q (want Low, Medium or High)", s)
}

// Status is the workflow column a task sits in
type Status string

const (
	StatusTodo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses returns the board columns in display order
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid returns true for the three workflow states
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus accepts the display name or a short form ("todo", "doing", "in-progress", "done")
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "to do", "todo", "to-do":
		return StatusTodo, nil
	case "in progress", "in-progress", "inprogress", "doing":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status %q (want To Do, In Progress or Done)", s)
}

// DefaultAssignee is used when a task has nobody assigned
const DefaultAssignee = "Unassigned"

// Task is a unit of work inside a project
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Priority     Priority  `json:"priority"`
	DueDate      time.Time `json:"dueDate"`
	AssignedUser string    `json:"assignedUser"`
	Status       Status    `json:"status"`
	ProjectID    string    `json:"projectId"`
	Comments     []Comment `json:"comments"`
}

// Clone returns a copy that shares no comment storage with t
func (t Task) Clone() Task {
	c := t
	if t.Comments != nil {
		c.Comments = make([]Comment, len(t.Comments))
		copy(c.Comments, t.Comments)
	}
	return c
}

// IsOverdue returns true if the due date is before today and the task is not done
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != StatusDone && t.DueDate.Before(Today(now))
}

// Today truncates now to local midnight
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// TaskDraft holds the fields a caller supplies when creating a task
type TaskDraft struct {
	ProjectID    string    `json:"projectId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Priority     Priority  `json:"priority"`
	DueDate      time.Time `json:"dueDate"`
	AssignedUser string    `json:"assignedUser"`
	Status       Status    `json:"status"`
}

// WithDefaults fills unset fields: Medium priority, due today, Unassigned, To Do
func (d TaskDraft) WithDefaults(now time.Time) TaskDraft {
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.DueDate.IsZero() {
		d.DueDate = Today(now)
	}
	if strings.TrimSpace(d.AssignedUser) == "" {
		d.AssignedUser = DefaultAssignee
	}
	if d.Status == "" {
		d.Status = StatusTodo
	}
	return d
}

// Validate checks required fields and enum values
func (d TaskDraft) Validate() error {
	if strings.TrimSpace(d.ProjectID) == "" {
		return &ValidationError{Field: "projectId", Message: "a project must be selected"}
	}
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "task title is required"}
	}
	if d.Status != "" && !d.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("invalid status %q", d.Status)}
	}
	if d.Priority != "" {
		if _, err := ParsePriority(string(d.Priority)); err != nil {
			return &ValidationError{Field: "priority", Message: err.Error()}
		}
	}
	return nil
}

// TaskPatch is a partial update; nil fields are left unchanged.
// The owning project cannot be changed.
type TaskPatch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Priority     *Priority  `json:"priority,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	AssignedUser *string    `json:"assignedUser,omitempty"`
	Status       *Status    `json:"status,omitempty"`
}

// StatusPatch builds a patch that only moves the task
func StatusPatch(s Status) TaskPatch {
	return TaskPatch{Status: &s}
}

// IsEmpty returns true if the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.DueDate == nil && p.AssignedUser == nil && p.Status == nil
}

// Validate rejects blank titles and out-of-range enums
func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return &ValidationError{Field: "title", Message: "task title cannot be empty"}
	}
	if p.Status != nil && !p.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("invalid status %q", *p.Status)}
	}
	if p.Priority != nil {
		if _, err := ParsePriority(string(*p.Priority)); err != nil {
			return &ValidationError{Field: "priority", Message: err.Error()}
		}
	}
	return nil
}

// Apply returns a copy of the task with the patch applied
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.AssignedUser != nil {
		t.AssignedUser = *p.AssignedUser
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}
