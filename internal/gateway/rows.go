package gateway

import (
	"fmt"
	"time"

	"github.com/existflow/planify/internal/model"
)

const (
	// TimestampLayout is fixed-width so rows sort lexically by creation time
	TimestampLayout = "2006-01-02T15:04:05.000000000Z"
	DateLayout      = "2006-01-02"
)

// ProjectRow is a row of the projects collection
type ProjectRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// ProjectInsert is the body of a project insert
type ProjectInsert struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id,omitempty"`
}

// ProjectUpdate carries only the columns being changed
type ProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TaskRow is a row of the tasks collection
type TaskRow struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Priority     string  `json:"priority"`
	DueDate      *string `json:"due_date"`
	AssignedUser *string `json:"assigned_user"`
	Status       string  `json:"status"`
	ProjectID    string  `json:"project_id"`
	CreatedAt    string  `json:"created_at"`
}

// TaskInsert is the body of a task insert
type TaskInsert struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	DueDate      string `json:"due_date"`
	AssignedUser string `json:"assigned_user"`
	Status       string `json:"status"`
	ProjectID    string `json:"project_id"`
}

// TaskUpdate carries only the columns being changed
type TaskUpdate struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	AssignedUser *string `json:"assigned_user,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// IsEmpty returns true if no column is set
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil &&
		u.DueDate == nil && u.AssignedUser == nil && u.Status == nil
}

// FormatTimestamp renders t in UTC with TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout and plain RFC 3339
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// FormatDate renders the calendar date of t
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a calendar date as local midnight. A full timestamp is
// truncated to its date.
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}

// ProjectFromRow converts a projects row to the in-memory shape
func ProjectFromRow(r ProjectRow) (model.Project, error) {
	created, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return model.Project{}, err
	}
	return model.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   created,
	}, nil
}

// ProjectInsertFromDraft builds the insert body for a draft
func ProjectInsertFromDraft(d model.ProjectDraft, ownerID string) ProjectInsert {
	return ProjectInsert{Name: d.Name, Description: d.Description, OwnerID: ownerID}
}

// ProjectUpdateFromPatch builds the update body for a patch
func ProjectUpdateFromPatch(p model.ProjectPatch) ProjectUpdate {
	return ProjectUpdate{Name: p.Name, Description: p.Description}
}

// TaskFromRow converts a tasks row to the in-memory shape. A missing due date
// becomes today and a missing assignee becomes model.DefaultAssignee.
// Comments are not part of the row and start empty.
func TaskFromRow(r TaskRow, now time.Time) (model.Task, error) {
	status := model.Status(r.Status)
	if !status.Valid() {
		return model.Task{}, fmt.Errorf("task %s has unknown status %q", r.ID, r.Status)
	}

	due := model.Today(now)
	if r.DueDate != nil && *r.DueDate != "" {
		d, err := ParseDate(*r.DueDate)
		if err != nil {
			return model.Task{}, err
		}
		due = d
	}

	assignee := model.DefaultAssignee
	if r.AssignedUser != nil && *r.AssignedUser != "" {
		assignee = *r.AssignedUser
	}

	return model.Task{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Priority:     model.Priority(r.Priority),
		DueDate:      due,
		AssignedUser: assignee,
		Status:       status,
		ProjectID:    r.ProjectID,
		Comments:     []model.Comment{},
	}, nil
}

// TaskInsertFromDraft builds the insert body. The draft should already carry defaults.
func TaskInsertFromDraft(d model.TaskDraft) TaskInsert {
	return TaskInsert{
		Title:        d.Title,
		Description:  d.Description,
		Priority:     string(d.Priority),
		DueDate:      FormatDate(d.DueDate),
		AssignedUser: d.AssignedUser,
		Status:       string(d.Status),
		ProjectID:    d.ProjectID,
	}
}

// TaskUpdateFromPatch builds an update body holding only the supplied fields
func TaskUpdateFromPatch(p model.TaskPatch) TaskUpdate {
	var u TaskUpdate
	u.Title = p.Title
	u.Description = p.Description
	u.AssignedUser = p.AssignedUser
	if p.Priority != nil {
		s := string(*p.Priority)
		u.Priority = &s
	}
	if p.DueDate != nil {
		s := FormatDate(*p.DueDate)
		u.DueDate = &s
	}
	if p.Status != nil {
		s := string(*p.Status)
		u.Status = &s
	}
	return u
}
