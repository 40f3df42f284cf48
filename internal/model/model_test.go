package model

import (
	"errors"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"To Do", StatusTodo, false},
		{"todo", StatusTodo, false},
		{"doing", StatusInProgress, false},
		{" In-Progress ", StatusInProgress, false},
		{"DONE", StatusDone, false},
		{"blocked", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"low": PriorityLow, "Medium": PriorityMedium, "HIGH": PriorityHigh} {
		got, err := ParsePriority(in)
		if err != nil || got != want {
			t.Errorf("ParsePriority(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("ParsePriority(urgent) should fail")
	}
}

func TestTaskDraftDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.UTC)
	d := TaskDraft{ProjectID: "p1", Title: "Write copy", AssignedUser: "  "}.WithDefaults(now)

	if d.Priority != PriorityMedium {
		t.Errorf("Priority = %q", d.Priority)
	}
	if d.Status != StatusTodo {
		t.Errorf("Status = %q", d.Status)
	}
	if d.AssignedUser != DefaultAssignee {
		t.Errorf("AssignedUser = %q", d.AssignedUser)
	}
	if want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC); !d.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", d.DueDate, want)
	}

	kept := TaskDraft{Priority: PriorityHigh, Status: StatusDone, AssignedUser: "ana"}.WithDefaults(now)
	if kept.Priority != PriorityHigh || kept.Status != StatusDone || kept.AssignedUser != "ana" {
		t.Errorf("explicit fields overwritten: %+v", kept)
	}
}

func TestTaskDraftValidate(t *testing.T) {
	tests := []struct {
		name  string
		draft TaskDraft
		field string
	}{
		{"valid", TaskDraft{ProjectID: "p1", Title: "x"}, ""},
		{"no project", TaskDraft{Title: "x"}, "projectId"},
		{"blank title", TaskDraft{ProjectID: "p1", Title: "   "}, "title"},
		{"bad status", TaskDraft{ProjectID: "p1", Title: "x", Status: "Blocked"}, "status"},
		{"bad priority", TaskDraft{ProjectID: "p1", Title: "x", Priority: "Urgent"}, "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Errorf("Validate() = %v, want field %s", err, tt.field)
			}
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	comments := []Comment{{ID: "c1", Text: "hi"}}
	task := Task{ID: "t1", Title: "Old", Status: StatusTodo, Priority: PriorityLow, ProjectID: "p1", Comments: comments}

	title := "New"
	got := TaskPatch{Title: &title}.Apply(task)
	if got.Title != "New" || got.Status != StatusTodo || got.Priority != PriorityLow {
		t.Errorf("Apply title = %+v", got)
	}

	got = StatusPatch(StatusDone).Apply(task)
	if got.Status != StatusDone || got.Title != "Old" || len(got.Comments) != 1 {
		t.Errorf("Apply status = %+v", got)
	}
	if task.Status != StatusTodo {
		t.Error("Apply mutated its input")
	}

	if !(TaskPatch{}).IsEmpty() || StatusPatch(StatusDone).IsEmpty() {
		t.Error("IsEmpty wrong")
	}
}

func TestTaskPatchValidate(t *testing.T) {
	blank := " "
	bad := Status("Blocked")
	if err := (TaskPatch{Title: &blank}).Validate(); err == nil {
		t.Error("blank title accepted")
	}
	if err := (TaskPatch{Status: &bad}).Validate(); err == nil {
		t.Error("bad status accepted")
	}
	if err := StatusPatch(StatusInProgress).Validate(); err != nil {
		t.Errorf("status patch rejected: %v", err)
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past due", Task{DueDate: yesterday, Status: StatusTodo}, true},
		{"due today", Task{DueDate: today, Status: StatusInProgress}, false},
		{"past due but done", Task{DueDate: yesterday, Status: StatusDone}, false},
	}

	for _, tt := range tests {
		if got := tt.task.IsOverdue(now); got != tt.want {
			t.Errorf("%s: IsOverdue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClone(t *testing.T) {
	tests := []struct {
		name     string
		comments []Comment
	}{
		{"nil thread", nil},
		{"empty thread", []Comment{}},
		{"one comment", []Comment{{ID: "c1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{ID: "t1", Comments: tt.comments}
			c := task.Clone()

			if (c.Comments == nil) != (tt.comments == nil) {
				t.Fatalf("Clone comments = %#v, want nil-ness of %#v", c.Comments, tt.comments)
			}
			if len(c.Comments) != len(tt.comments) {
				t.Fatalf("len = %d, want %d", len(c.Comments), len(tt.comments))
			}
			if len(c.Comments) > 0 {
				c.Comments[0].Text = "changed"
				if task.Comments[0].Text != "" {
					t.Error("Clone shares comment storage")
				}
			}
		})
	}
}

func TestProjectPatch(t *testing.T) {
	name := "Renamed"
	p := ProjectPatch{Name: &name}.Apply(Project{ID: "p1", Name: "Old", Description: "d"})
	if p.Name != "Renamed" || p.Description != "d" {
		t.Errorf("Apply = %+v", p)
	}

	blank := ""
	if err := (ProjectPatch{Name: &blank}).Validate(); err == nil {
		t.Error("blank name accepted")
	}
	if err := (ProjectDraft{Name: "  "}).Validate(); err == nil {
		t.Error("blank draft name accepted")
	}
}
