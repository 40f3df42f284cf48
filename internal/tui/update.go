package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/config"
	"github.com/existflow/planify/internal/logger"
	"github.com/existflow/planify/internal/model"
)

type boardOpenedMsg struct {
	id  string
	err error
}

func viewBoard(b *board.Board, id string) error {
	return b.ViewProjectBoard(context.Background(), id)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.message.Message != "" && time.Time(msg).After(m.messageTill) {
			m.message = board.Notification{}
		}
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case notifyMsg:
		m.message = board.Notification(msg)
		m.messageTill = time.Now().Add(m.message.Duration)
		return m, nil

	case changedMsg, opDoneMsg:
		m.refresh()
		return m, nil

	case boardOpenedMsg:
		if msg.err == nil {
			m.pane = PaneBoard
			m.col, m.row = 0, 0
			if err := m.prefs.SetLastProject(msg.id); err != nil {
				logger.Warn("Failed to save preferences", logger.F("error", err))
			}
			if err := m.prefs.SetActivePage(config.PageProjects); err != nil {
				logger.Warn("Failed to save preferences", logger.F("error", err))
			}
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch m.mode {
		case ModeAddTask, ModeAddProject, ModeEditTask, ModeEditProject, ModeComment:
			return m.updateInput(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg)
		case ModeHelp, ModeDetail:
			m.mode = ModeNormal
			return m, nil
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneBoard
		} else if m.sidebarOpen {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Sidebar):
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen {
			m.pane = PaneBoard
		}
		if err := m.prefs.SetSidebarOpen(m.sidebarOpen); err != nil {
			logger.Warn("Failed to save preferences", logger.F("error", err))
		}

	case key.Matches(msg, keys.Theme):
		theme := nextTheme(m.prefs.CurrentTheme())
		if err := m.prefs.SetTheme(theme); err != nil {
			logger.Warn("Failed to save preferences", logger.F("error", err))
		}
		applyTheme(theme)
		m.message = board.Notification{Kind: board.KindInfo, Message: "Theme: " + theme, Duration: board.DefaultDuration}
		m.messageTill = time.Now().Add(board.DefaultDuration)

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Refresh):
		b := m.board
		return m, run(b.Reload)

	case key.Matches(msg, keys.Project):
		return m.openInput(ModeAddProject, "Enter project name...", "")

	case key.Matches(msg, keys.Back):
		m.board.BackToProjects()
		if err := m.prefs.SetLastProject(""); err != nil {
			logger.Warn("Failed to save preferences", logger.F("error", err))
		}
		if err := m.prefs.SetActivePage(config.PageDashboard); err != nil {
			logger.Warn("Failed to save preferences", logger.F("error", err))
		}
		m.refresh()
	}

	if m.pane == PaneSidebar {
		return m.updateSidebar(msg)
	}
	return m.updateBoard(msg)
}

func (m Model) updateSidebar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.projCursor > 0 {
			m.projCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.projCursor < len(m.projects)-1 {
			m.projCursor++
		}

	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Right):
		if p := m.currentProject(); p != nil {
			b, id := m.board, p.ID
			return m, func() tea.Msg {
				return boardOpenedMsg{id: id, err: viewBoard(b, id)}
			}
		}

	case key.Matches(msg, keys.EditProject):
		if p := m.currentProject(); p != nil {
			return m.openInput(ModeEditProject, "Project name...", p.Name)
		}

	case key.Matches(msg, keys.Delete):
		if p := m.currentProject(); p != nil {
			m.deleteProject, m.deleteTask = p.ID, ""
			m.mode = ModeConfirmDelete
		}
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(msg, keys.Down):
		if m.row < len(m.columnTasks())-1 {
			m.row++
		}

	case key.Matches(msg, keys.Left):
		if m.col > 0 {
			m.col--
			m.row = 0
		} else if m.sidebarOpen {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Right):
		if m.col < len(m.columns)-1 {
			m.col++
			m.row = 0
		}

	case key.Matches(msg, keys.MoveLeft):
		return m.dragCard(-1)

	case key.Matches(msg, keys.MoveRight):
		return m.dragCard(1)

	case key.Matches(msg, keys.Done):
		if t := m.currentTask(); t != nil && t.Status != model.StatusDone {
			b, id := m.board, t.ID
			return m, run(func(ctx context.Context) error {
				return b.MoveTask(ctx, id, model.StatusDone)
			})
		}

	case key.Matches(msg, keys.Add):
		title := "Enter task..."
		if _, ok := m.board.Selected(); !ok {
			title = "Open a project board first"
		}
		return m.openInput(ModeAddTask, title, "")

	case key.Matches(msg, keys.Edit):
		if t := m.currentTask(); t != nil {
			return m.openInput(ModeEditTask, "Edit task...", t.Title)
		}

	case key.Matches(msg, keys.Comment):
		if t := m.currentTask(); t != nil {
			return m.openInput(ModeComment, "Write a comment...", "")
		}

	case key.Matches(msg, keys.Delete):
		if t := m.currentTask(); t != nil {
			m.deleteTask, m.deleteProject = t.ID, ""
			m.mode = ModeConfirmDelete
		}

	case key.Matches(msg, keys.Enter):
		if m.currentTask() != nil {
			m.mode = ModeDetail
		}
	}
	return m, nil
}

// dragCard drops the selected card onto the end of the neighbouring column
func (m Model) dragCard(dir int) (tea.Model, tea.Cmd) {
	t := m.currentTask()
	dest := m.col + dir
	if t == nil || dest < 0 || dest >= len(m.columns) {
		return m, nil
	}

	drop := board.Drop{
		TaskID:      t.ID,
		Source:      board.Position{Status: m.columns[m.col].Status, Index: m.row},
		Destination: &board.Position{Status: m.columns[dest].Status, Index: len(m.columns[dest].Tasks)},
	}
	m.col, m.row = dest, len(m.columns[dest].Tasks)

	b := m.board
	return m, run(func(ctx context.Context) error {
		return b.HandleDrop(ctx, drop)
	})
}

func (m Model) openInput(mode Mode, placeholder, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()
		return m, m.submit(mode, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit turns a finished input into a board command. Empty values are
// passed through so the board can report them.
func (m Model) submit(mode Mode, value string) tea.Cmd {
	b := m.board
	switch mode {
	case ModeAddProject:
		return run(func(ctx context.Context) error {
			_, err := b.CreateProject(ctx, value, "")
			return err
		})

	case ModeEditProject:
		if p := m.currentProject(); p != nil {
			id := p.ID
			return run(func(ctx context.Context) error {
				_, err := b.EditProject(ctx, id, model.ProjectPatch{Name: &value})
				return err
			})
		}

	case ModeAddTask:
		projectID := ""
		if p, ok := b.Selected(); ok {
			projectID = p.ID
		}
		status := model.StatusTodo
		if m.col < len(m.columns) {
			status = m.columns[m.col].Status
		}
		return run(func(ctx context.Context) error {
			_, err := b.CreateTask(ctx, projectID, model.TaskDraft{Title: value, Status: status})
			return err
		})

	case ModeEditTask:
		if t := m.currentTask(); t != nil {
			id := t.ID
			return run(func(ctx context.Context) error {
				_, err := b.EditTask(ctx, id, model.TaskPatch{Title: &value})
				return err
			})
		}

	case ModeComment:
		if t := m.currentTask(); t != nil {
			id := t.ID
			return run(func(context.Context) error {
				_, err := b.AddComment(id, value)
				return err
			})
		}
	}
	return nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}

	b := m.board
	if id := m.deleteTask; id != "" {
		return m, run(func(ctx context.Context) error { return b.DeleteTask(ctx, id) })
	}
	if id := m.deleteProject; id != "" {
		return m, run(func(ctx context.Context) error { return b.DeleteProject(ctx, id) })
	}
	return m, nil
}
