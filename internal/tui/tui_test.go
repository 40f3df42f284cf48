package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/config"
	"github.com/existflow/planify/internal/gateway/memory"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/permission"
	"github.com/existflow/planify/internal/session"
	"github.com/existflow/planify/internal/store"
)

type testEnv struct {
	gw        *memory.Gateway
	board     *board.Board
	inbox     *board.Inbox
	prefsPath string
}

func createTestModel(t *testing.T, role permission.Role) (Model, *testEnv) {
	t.Helper()

	profile := model.Profile{UserID: "u1", Name: "maria", Role: string(role)}
	sess, err := session.FromProfile(profile)
	if err != nil {
		t.Fatalf("FromProfile: %v", err)
	}

	env := &testEnv{
		gw:        memory.New(profile),
		inbox:     &board.Inbox{},
		prefsPath: filepath.Join(t.TempDir(), "prefs.yaml"),
	}
	env.board = board.New(env.gw, sess, env.inbox, logger.Nop())

	prefs, err := config.LoadPrefsFrom(env.prefsPath)
	if err != nil {
		t.Fatalf("LoadPrefsFrom: %v", err)
	}

	m := NewModel(env.board, sess, prefs)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), env
}

func keyMsg(k string) tea.Msg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press feeds keys one by one and runs every command they return
func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m = deliver(m, keyMsg(k))
	}
	return m
}

func deliver(m Model, msg tea.Msg) Model {
	next, cmd := m.Update(msg)
	return execute(next.(Model), cmd)
}

func execute(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			m = execute(m, c)
		}
	default:
		m = deliver(m, msg)
	}
	return m
}

func titles(m Model) map[model.Status][]string {
	out := make(map[model.Status][]string)
	for _, c := range m.columns {
		for _, task := range c.Tasks {
			out[c.Status] = append(out[c.Status], task.Title)
		}
	}
	return out
}

func TestBoardWorkflow(t *testing.T) {
	m, env := createTestModel(t, permission.RoleAdmin)

	m = press(m, "p", "Launch", "enter")
	if len(m.projects) != 1 || m.projects[0].Name != "Launch" {
		t.Fatalf("projects = %+v", m.projects)
	}

	m = press(m, "enter")
	if m.pane != PaneBoard {
		t.Fatalf("pane = %v, want board", m.pane)
	}
	if p, ok := env.board.Selected(); !ok || p.Name != "Launch" {
		t.Fatalf("selected = %+v, %v", p, ok)
	}

	m = press(m, "a", "Write copy", "enter")
	if got := titles(m)[model.StatusTodo]; len(got) != 1 || got[0] != "Write copy" {
		t.Fatalf("To Do = %v", got)
	}

	m = press(m, "L")
	if got := titles(m)[model.StatusInProgress]; len(got) != 1 {
		t.Fatalf("In Progress = %v", got)
	}
	if m.col != 1 {
		t.Errorf("col = %d, want cursor to follow the card", m.col)
	}
	if env.gw.CallCount(memory.CallUpdateTask) != 1 {
		t.Errorf("UpdateTask calls = %d", env.gw.CallCount(memory.CallUpdateTask))
	}

	m = press(m, "x")
	if got := titles(m)[model.StatusDone]; len(got) != 1 {
		t.Fatalf("Done = %v", got)
	}
}

func TestAddTaskGoesToFocusedColumn(t *testing.T) {
	m, _ := createTestModel(t, permission.RoleAdmin)

	m = press(m, "p", "Launch", "enter", "enter", "l", "a", "Review", "enter")
	if got := titles(m)[model.StatusInProgress]; len(got) != 1 || got[0] != "Review" {
		t.Fatalf("In Progress = %v", got)
	}
}

func TestMoveFailureReturnsCard(t *testing.T) {
	m, env := createTestModel(t, permission.RoleAdmin)
	m = press(m, "p", "Launch", "enter", "enter", "a", "Write copy", "enter")

	env.gw.FailOn(memory.CallUpdateTask, nil)
	m = press(m, "L")

	got := titles(m)
	if len(got[model.StatusTodo]) != 1 || len(got[model.StatusInProgress]) != 0 {
		t.Fatalf("columns = %v, want card back in To Do", got)
	}
	n, ok := env.inbox.Last()
	if !ok || n.Kind != board.KindError {
		t.Fatalf("notification = %+v", n)
	}
	if !strings.Contains(n.Message, "returned to To Do") {
		t.Errorf("message = %q", n.Message)
	}
}

func TestViewerIsDenied(t *testing.T) {
	m, env := createTestModel(t, permission.RoleViewer)

	m = press(m, "p", "Launch", "enter")
	if len(m.projects) != 0 {
		t.Fatalf("viewer created a project")
	}
	if env.gw.CallCount(memory.CallCreateProject) != 0 {
		t.Error("denied create reached the gateway")
	}
	n, _ := env.inbox.Last()
	if n.Message != "You do not have permission to create projects" {
		t.Errorf("message = %q", n.Message)
	}

	hints := m.hints()
	for _, h := range []string{"a:add", "d:del", "p:project"} {
		if strings.Contains(hints, h) {
			t.Errorf("viewer hints %q include %q", hints, h)
		}
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, env := createTestModel(t, permission.RoleAdmin)
	m = press(m, "p", "Launch", "enter", "enter", "a", "Write copy", "enter")

	m = press(m, "d", "n")
	if len(env.board.Tasks(store.TaskFilter{})) != 1 {
		t.Fatal("task deleted without confirmation")
	}
	if m.mode != ModeNormal {
		t.Errorf("mode = %v", m.mode)
	}

	m = press(m, "d", "y")
	if len(env.board.Tasks(store.TaskFilter{})) != 0 {
		t.Fatal("task not deleted")
	}
	if env.gw.CallCount(memory.CallDeleteTask) != 1 {
		t.Errorf("DeleteTask calls = %d", env.gw.CallCount(memory.CallDeleteTask))
	}
}

func TestCommentShowsInDetail(t *testing.T) {
	m, _ := createTestModel(t, permission.RoleAdmin)
	m = press(m, "p", "Launch", "enter", "enter", "a", "Write copy", "enter")

	m = press(m, "c", "Looks good", "enter")
	task := m.currentTask()
	if task == nil || len(task.Comments) != 1 {
		t.Fatalf("task = %+v", task)
	}
	if task.Comments[0].Author != "maria" {
		t.Errorf("author = %q", task.Comments[0].Author)
	}

	m = press(m, "enter")
	if m.mode != ModeDetail {
		t.Fatalf("mode = %v, want detail", m.mode)
	}
	if view := m.View(); !strings.Contains(view, "Looks good") {
		t.Error("detail view does not show the comment")
	}

	m = press(m, "q")
	if m.mode != ModeNormal {
		t.Errorf("any key should close the detail view")
	}
}

func TestEscapeCancelsInput(t *testing.T) {
	m, env := createTestModel(t, permission.RoleAdmin)

	m = press(m, "p", "Launch", "esc")
	if m.mode != ModeNormal {
		t.Errorf("mode = %v", m.mode)
	}
	if env.gw.CallCount(memory.CallCreateProject) != 0 {
		t.Error("cancelled input reached the gateway")
	}
}

func TestSidebarTogglePersists(t *testing.T) {
	m, env := createTestModel(t, permission.RoleAdmin)

	m = press(m, "s")
	if m.sidebarOpen {
		t.Fatal("sidebar still open")
	}

	prefs, err := config.LoadPrefsFrom(env.prefsPath)
	if err != nil {
		t.Fatalf("LoadPrefsFrom: %v", err)
	}
	if _, open, _ := prefs.Snapshot(); open {
		t.Error("sidebar state not saved")
	}
}

func TestThemeCyclesAndPersists(t *testing.T) {
	m, env := createTestModel(t, permission.RoleAdmin)

	for _, want := range []string{config.ThemeDark, config.ThemeLight, config.ThemeAuto} {
		m = press(m, "t")
		prefs, err := config.LoadPrefsFrom(env.prefsPath)
		if err != nil {
			t.Fatalf("LoadPrefsFrom: %v", err)
		}
		if got := prefs.CurrentTheme(); got != want {
			t.Fatalf("theme = %q, want %q", got, want)
		}
	}
}

func TestReloadAppliesNewRole(t *testing.T) {
	m, env := createTestModel(t, permission.RoleViewer)

	m = press(m, "p", "Launch", "enter")
	if len(m.projects) != 0 {
		t.Fatalf("viewer created %+v", m.projects)
	}

	env.gw.SetRole(string(permission.RoleAdmin))
	m = press(m, "R")
	if m.session.Role() != permission.RoleAdmin {
		t.Fatalf("role = %s after reload", m.session.Role())
	}

	m = press(m, "p", "Launch", "enter")
	if len(m.projects) != 1 {
		t.Errorf("projects = %+v", m.projects)
	}
}

func TestAllProjectsShowsStats(t *testing.T) {
	m, _ := createTestModel(t, permission.RoleAdmin)
	m = press(m, "p", "Launch", "enter", "enter", "a", "Write copy", "enter", "x", "a", "Ship", "enter")
	if strings.Contains(m.View(), "2 tasks") {
		t.Error("stats shown on a project board")
	}

	m = press(m, "b")
	out := m.View()
	for _, want := range []string{"1 projects", "2 tasks", "1 done", "1 pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestBackClearsLastProject(t *testing.T) {
	m, env := createTestModel(t, permission.RoleAdmin)
	m = press(m, "p", "Launch", "enter", "enter")

	if _, _, last := m.prefs.Snapshot(); last == "" {
		t.Fatal("opened board not remembered")
	}

	m = press(m, "b")
	if _, ok := env.board.Selected(); ok {
		t.Error("board still open")
	}
	page, _, last := m.prefs.Snapshot()
	if last != "" || page != config.PageDashboard {
		t.Errorf("prefs = %q, %q", page, last)
	}
}

func TestNotificationExpires(t *testing.T) {
	m, _ := createTestModel(t, permission.RoleAdmin)

	next, _ := m.Update(notifyMsg{Kind: board.KindSuccess, Message: "Saved", Duration: time.Second})
	m = next.(Model)
	if !strings.Contains(m.renderStatusBar(), "Saved") {
		t.Fatal("message not shown")
	}

	next, _ = m.Update(tickMsg(time.Now().Add(2 * time.Second)))
	m = next.(Model)
	if m.message.Message != "" {
		t.Errorf("message = %q, want expired", m.message.Message)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a longer title", 8, "a lon..."},
		{"héllo wörld", 6, "hél..."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
