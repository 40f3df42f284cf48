package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/config"
	"github.com/existflow/planify/internal/gateway/memory"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/session"
)

func TestParseDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 30, 0, 0, time.Local)
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"today", today, false},
		{"Tomorrow", today.AddDate(0, 0, 1), false},
		{"+3d", today.AddDate(0, 0, 3), false},
		{"2025-07-04", time.Date(2025, 7, 4, 0, 0, 0, 0, time.Local), false},
		{"+xd", time.Time{}, true},
		{"next week", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDue(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDue(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseDue(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func createTestWorkspace(t *testing.T) *workspace {
	t.Helper()

	profile := model.Profile{UserID: "u1", Name: "maria", Role: "admin"}
	sess, err := session.FromProfile(profile)
	if err != nil {
		t.Fatalf("FromProfile: %v", err)
	}
	b := board.New(memory.New(profile), sess, &board.Inbox{}, logger.Nop())
	return &workspace{board: b, session: sess, prefs: config.DefaultPrefs()}
}

func TestFindProject(t *testing.T) {
	ctx := context.Background()
	ws := createTestWorkspace(t)

	launch, err := ws.board.CreateProject(ctx, "Launch", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := ws.board.CreateProject(ctx, "Hiring", ""); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	tests := []struct {
		ref     string
		wantErr bool
	}{
		{launch.ID, false},
		{"Launch", false},
		{"launch", false},
		{"Marketing", true},
	}

	for _, tt := range tests {
		p, err := ws.findProject(tt.ref)
		if (err != nil) != tt.wantErr {
			t.Fatalf("findProject(%q) err = %v, wantErr %v", tt.ref, err, tt.wantErr)
		}
		if !tt.wantErr && p.ID != launch.ID {
			t.Errorf("findProject(%q) = %s, want %s", tt.ref, p.Name, launch.Name)
		}
	}
}

func TestFindTask(t *testing.T) {
	ctx := context.Background()
	ws := createTestWorkspace(t)

	p, err := ws.board.CreateProject(ctx, "Launch", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	task, err := ws.board.CreateTask(ctx, p.ID, model.TaskDraft{Title: "Write copy"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	for _, ref := range []string{task.ID, shortID(task.ID)} {
		got, err := ws.findTask(ref)
		if err != nil {
			t.Fatalf("findTask(%q): %v", ref, err)
		}
		if got.ID != task.ID {
			t.Errorf("findTask(%q) = %s", ref, got.ID)
		}
	}

	if _, err := ws.findTask("zzzz"); err == nil {
		t.Error("findTask(unknown) should fail")
	}
}

func TestCurrentProject(t *testing.T) {
	ctx := context.Background()
	ws := createTestWorkspace(t)
	ws.prefs, _ = config.LoadPrefsFrom(filepath.Join(t.TempDir(), "prefs.yaml"))

	if _, ok := ws.currentProject(); ok {
		t.Fatal("fresh prefs should have no current project")
	}

	p, err := ws.board.CreateProject(ctx, "Launch", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := ws.prefs.SetLastProject(p.ID); err != nil {
		t.Fatalf("SetLastProject: %v", err)
	}
	if got, ok := ws.currentProject(); !ok || got.ID != p.ID {
		t.Errorf("currentProject = %+v, %v", got, ok)
	}

	if err := ws.board.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, ok := ws.currentProject(); ok {
		t.Error("deleted project still current")
	}
}
