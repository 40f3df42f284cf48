package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/config"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/session"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneBoard
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeAddProject
	ModeEditTask
	ModeEditProject
	ModeComment
	ModeConfirmDelete
	ModeDetail
	ModeHelp
)

// Model is the main TUI model
type Model struct {
	board   *board.Board
	session *session.Session
	prefs   *config.Prefs

	projects []model.Project
	columns  []board.Column

	// UI state
	width       int
	height      int
	pane        Pane
	mode        Mode
	sidebarOpen bool
	projCursor  int
	col         int
	row         int

	// Input
	input textinput.Model

	// pending delete, set in ModeConfirmDelete
	deleteTask    string
	deleteProject string

	message     board.Notification
	messageTill time.Time
}

// NewModel creates a new TUI model over an already loaded board
func NewModel(b *board.Board, sess *session.Session, prefs *config.Prefs) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50

	if prefs == nil {
		prefs = config.DefaultPrefs()
	}
	_, sidebarOpen, _ := prefs.Snapshot()
	applyTheme(prefs.CurrentTheme())

	m := Model{
		board:       b,
		session:     sess,
		prefs:       prefs,
		pane:        PaneSidebar,
		mode:        ModeNormal,
		sidebarOpen: sidebarOpen,
		input:       ti,
	}
	m.refresh()

	logger.Debug("TUI model initialized",
		logger.F("projects", len(m.projects)),
		logger.F("role", sess.Role()))
	return m
}

// refresh re-reads board state and clamps the cursors
func (m *Model) refresh() {
	m.projects = m.board.Projects()
	m.columns = m.board.Columns()

	if m.projCursor >= len(m.projects) {
		m.projCursor = max(len(m.projects)-1, 0)
	}
	if m.col >= len(m.columns) {
		m.col = 0
	}
	if n := len(m.columnTasks()); m.row >= n {
		m.row = max(n-1, 0)
	}
}

func (m *Model) currentProject() *model.Project {
	if m.projCursor < len(m.projects) {
		return &m.projects[m.projCursor]
	}
	return nil
}

func (m *Model) columnTasks() []model.Task {
	if m.col < len(m.columns) {
		return m.columns[m.col].Tasks
	}
	return nil
}

func (m *Model) currentTask() *model.Task {
	tasks := m.columnTasks()
	if m.row < len(tasks) {
		return &tasks[m.row]
	}
	return nil
}

// tickMsg is sent every second to expire notifications
type tickMsg time.Time

// Init initializes the model with a tick command and opens the last board
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if _, _, last := m.prefs.Snapshot(); last != "" && m.board.ProjectName(last) != board.UnknownProjectName {
		b := m.board
		cmds = append(cmds, func() tea.Msg {
			return boardOpenedMsg{id: last, err: viewBoard(b, last)}
		})
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
