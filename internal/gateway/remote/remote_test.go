package remote_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/existflow/planify/internal/gateway"
	"github.com/existflow/planify/internal/gateway/remote"
	"github.com/existflow/planify/internal/gateway/sqlstore"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/server"
)

func createTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sqlstore.Open(sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	srv := server.NewWithDB(db, server.Options{Logger: logger.Nop()})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts
}

func createTestClient(t *testing.T, ts *httptest.Server, username string) *remote.Client {
	t.Helper()

	c, err := remote.NewClientFromFile(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("NewClientFromFile: %v", err)
	}
	if err := c.SetServer(ts.URL); err != nil {
		t.Fatalf("SetServer: %v", err)
	}
	if err := c.Register(context.Background(), username, username+"@example.com", "correct horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return c
}

func TestRemoteRoundTrip(t *testing.T) {
	ctx := context.Background()
	ts := createTestServer(t)
	c := createTestClient(t, ts, "ana")

	profile, err := c.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.Role != "admin" || profile.Name != "ana" {
		t.Errorf("profile = %+v", profile)
	}

	p, err := c.CreateProject(ctx, model.ProjectDraft{Name: "Launch", Description: "Q3"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	projects, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 || projects[0] != p {
		t.Errorf("projects = %+v, want [%+v]", projects, p)
	}

	task, err := c.CreateTask(ctx, model.TaskDraft{ProjectID: p.ID, Title: "Write copy"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Status != model.StatusTodo || task.AssignedUser != model.DefaultAssignee {
		t.Errorf("task = %+v", task)
	}

	moved, err := c.UpdateTask(ctx, task.ID, model.StatusPatch(model.StatusInProgress))
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if moved.Status != model.StatusInProgress || moved.Title != "Write copy" {
		t.Errorf("moved = %+v", moved)
	}

	tasks, err := c.ListTasks(ctx, gateway.TaskScope{ProjectID: p.ID})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Status != model.StatusInProgress {
		t.Errorf("tasks = %+v", tasks)
	}

	if err := c.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	orphans, err := c.ListTasks(ctx, gateway.TaskScope{})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(orphans) != 1 {
		t.Errorf("remote delete should leave tasks, got %d", len(orphans))
	}
}

func TestRemoteErrors(t *testing.T) {
	ctx := context.Background()
	ts := createTestServer(t)
	createTestClient(t, ts, "ana")
	viewer := createTestClient(t, ts, "ben")

	_, err := viewer.CreateProject(ctx, model.ProjectDraft{Name: "x"})
	var pe *gateway.PersistenceError
	var se *remote.StatusError
	if !errors.As(err, &pe) || !errors.As(err, &se) || se.Code != 403 {
		t.Errorf("viewer create err = %v", err)
	}

	err = viewer.DeleteTask(ctx, "missing")
	if !errors.As(err, &se) || se.Code != 403 {
		t.Errorf("viewer delete err = %v", err)
	}

	name := "y"
	_, err = createTestClient(t, ts, "cy").UpdateProject(ctx, "missing", model.ProjectPatch{Name: &name})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRemoteNotFound(t *testing.T) {
	ctx := context.Background()
	ts := createTestServer(t)
	admin := createTestClient(t, ts, "ana")

	name := "y"
	_, err := admin.UpdateProject(ctx, "missing", model.ProjectPatch{Name: &name})
	if !gateway.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestSessionPersistsAcrossClients(t *testing.T) {
	ts := createTestServer(t)
	path := filepath.Join(t.TempDir(), "session.json")

	c, _ := remote.NewClientFromFile(path)
	c.SetServer(ts.URL)
	if err := c.Register(context.Background(), "ana", "ana@example.com", "correct horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	again, err := remote.NewClientFromFile(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !again.IsLoggedIn() || again.ServerURL() != ts.URL {
		t.Fatalf("reloaded client not logged in: %s", again.ServerURL())
	}
	if _, err := again.Profile(context.Background()); err != nil {
		t.Errorf("Profile: %v", err)
	}

	if err := again.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := c.Profile(context.Background()); err == nil {
		t.Error("token should be revoked on the server")
	}
}
