package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/model"
	"github.com/existflow/planify/internal/permission"
	"github.com/existflow/planify/internal/store"
)

const sidebarWidth = 26

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var main string
	switch m.mode {
	case ModeHelp:
		main = m.renderHelp()
	case ModeAddTask, ModeAddProject, ModeEditTask, ModeEditProject, ModeComment:
		main = m.place(m.renderModal())
	case ModeConfirmDelete:
		main = m.place(m.renderConfirm())
	case ModeDetail:
		main = m.place(m.renderDetail())
	default:
		main = m.renderBoard()
		if m.sidebarOpen {
			main = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) place(modal string) string {
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, modal,
		lipgloss.WithWhitespaceChars(" "))
}

func (m Model) renderSidebar() string {
	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("Planify") + "\n")
	s.WriteString(HelpStyle.Render(time.Now().Format("15:04:05")) + "\n")
	s.WriteString(lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-4)) + "\n\n")

	if len(m.projects) == 0 {
		s.WriteString(HelpStyle.Render("No projects yet") + "\n")
	}

	selected, open := m.board.Selected()
	for i, p := range m.projects {
		tasks := m.board.Tasks(store.TaskFilter{ProjectID: p.ID})
		done := 0
		for _, t := range tasks {
			if t.Status == model.StatusDone {
				done++
			}
		}

		cursor := "  "
		style := ProjectItemStyle
		if i == m.projCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = ProjectItemSelectedStyle
			}
		}
		marker := " "
		if open && selected.ID == p.ID {
			marker = "●"
		}

		line := fmt.Sprintf("%s%s %-12s %d/%d", cursor, marker, truncate(p.Name, 12), done, len(tasks))
		s.WriteString(style.Render(line) + "\n")
	}

	s.WriteString("\n" + lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-4)) + "\n")
	s.WriteString(HelpStyle.Render("enter open  b all"))

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s.String())
}

func (m Model) renderBoard() string {
	width := m.width
	if m.sidebarOpen {
		width -= sidebarWidth + 2
	}

	title := "All projects"
	if p, ok := m.board.Selected(); ok {
		title = p.Name
		if p.Description != "" {
			title += HelpStyle.Render("  " + truncate(p.Description, width/2))
		}
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title)
	if _, ok := m.board.Selected(); !ok {
		header += "\n" + renderStats(m.board.Stats(time.Now()))
	}

	colWidth := max((width-4)/max(len(m.columns), 1)-4, 12)
	cols := make([]string, 0, len(m.columns))
	for i, c := range m.columns {
		cols = append(cols, m.renderColumn(i, c, colWidth))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	return BoardStyle.Width(width).Height(m.height - 2).Render(header + "\n\n" + body)
}

// renderStats is the dashboard line shown above the columns of all projects
func renderStats(st board.Stats) string {
	line := fmt.Sprintf("%d projects  %d tasks  %d done  %d pending",
		st.Projects, st.Tasks, st.Done, st.Pending)
	if st.Overdue > 0 {
		line += "  " + OverdueStyle.Render(fmt.Sprintf("%d overdue", st.Overdue))
	}

	prios := make([]string, 0, 3)
	for _, p := range []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow} {
		prios = append(prios, GetPriorityStyle(p).Render(fmt.Sprintf("%s %d", FormatPriority(p), st.ByPriority[p])))
	}
	return HelpStyle.Render(line) + "   " + strings.Join(prios, " ")
}

func (m Model) renderColumn(i int, c board.Column, width int) string {
	focused := m.pane == PaneBoard && i == m.col
	now := time.Now()

	var s strings.Builder
	head := fmt.Sprintf("%s (%d)", c.Status, len(c.Tasks))
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(StatusColor(c.Status)).Render(head) + "\n\n")

	if len(c.Tasks) == 0 {
		s.WriteString(HelpStyle.Render("empty"))
	}

	_, open := m.board.Selected()
	for j, t := range c.Tasks {
		style := CardStyle
		cursor := "  "
		if focused && j == m.row {
			style = CardSelectedStyle
			cursor = "❯ "
		}
		if t.Status == model.StatusDone {
			style = CardDoneStyle
		}

		s.WriteString(FormatPriority(t.Priority) + style.Render(cursor+truncate(t.Title, width-4)) + "\n")

		due := t.DueDate.Format("Jan 2")
		meta := fmt.Sprintf("   %s  %s", due, truncate(t.AssignedUser, width-14))
		if len(t.Comments) > 0 {
			meta += fmt.Sprintf("  💬%d", len(t.Comments))
		}
		if t.IsOverdue(now) {
			s.WriteString(OverdueStyle.Render(meta) + "\n")
		} else {
			s.WriteString(HelpStyle.Render(meta) + "\n")
		}
		if !open {
			s.WriteString(HelpStyle.Render("   "+truncate(m.board.ProjectName(t.ProjectID), width-4)) + "\n")
		}
	}

	style := ColumnStyle
	if focused {
		style = ColumnFocusedStyle
	}
	return style.Width(width).Render(s.String())
}

func (m Model) renderStatusBar() string {
	text := m.hints()
	if m.message.Message != "" {
		text = NotificationStyle(m.message.Kind).Render(m.message.Message)
	}

	role := ""
	if m.session != nil {
		role = fmt.Sprintf("%s (%s)", m.session.DisplayName(), m.session.Role())
	}
	if avail := m.width - lipgloss.Width(text) - lipgloss.Width(role) - 4; avail > 0 {
		text += strings.Repeat(" ", avail) + role
	}

	return StatusBarStyle.Width(m.width).Render(text)
}

// hints lists only the shortcuts the signed-in role can use
func (m Model) hints() string {
	var caps permission.Capabilities
	if m.session != nil {
		caps = m.session.Capabilities()
	}

	parts := []string{"hjkl:nav"}
	if caps.CreateTasks {
		parts = append(parts, "a:add")
	}
	if caps.EditTasks {
		parts = append(parts, "e:edit", "H/L:move", "x:done")
	}
	if caps.DeleteTasks {
		parts = append(parts, "d:del")
	}
	if caps.CreateProjects {
		parts = append(parts, "p:project")
	}
	parts = append(parts, "c:comment", "?:help", "q:quit")
	return strings.Join(parts, "  ")
}

func (m Model) renderModal() string {
	title := "Add Task"
	switch m.mode {
	case ModeAddProject:
		title = "New Project"
	case ModeEditProject:
		title = "Rename Project"
	case ModeEditTask:
		title = "Edit Task"
	case ModeComment:
		if t := m.currentTask(); t != nil {
			title = "Comment on: " + truncate(t.Title, 30)
		}
	case ModeAddTask:
		if p, ok := m.board.Selected(); ok && m.col < len(m.columns) {
			title = fmt.Sprintf("Add Task to: %s / %s", p.Name, m.columns[m.col].Status)
		}
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderConfirm() string {
	what := ""
	if m.deleteTask != "" {
		if t, ok := m.board.TaskStore().Get(m.deleteTask); ok {
			what = fmt.Sprintf("task %q", t.Title)
		}
	} else if m.deleteProject != "" {
		what = fmt.Sprintf("project %q and all its tasks", m.board.ProjectName(m.deleteProject))
	}

	content := lipgloss.NewStyle().Bold(true).Foreground(ErrorColor).Render("Delete "+what+"?") + "\n\n"
	content += HelpStyle.Render("y:delete  any other key:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderDetail() string {
	t := m.currentTask()
	if t == nil {
		return ""
	}
	width := min(m.width-10, 70)

	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(t.Title) + "\n")
	s.WriteString(HelpStyle.Render(m.board.ProjectName(t.ProjectID)) + "\n\n")

	desc := t.Description
	if desc == "" {
		desc = HelpStyle.Render("No description")
	}
	s.WriteString(desc + "\n\n")

	s.WriteString(fmt.Sprintf("Status:    %s\n", lipgloss.NewStyle().Foreground(StatusColor(t.Status)).Render(string(t.Status))))
	s.WriteString(fmt.Sprintf("Priority:  %s\n", GetPriorityStyle(t.Priority).Render(string(t.Priority))))
	due := t.DueDate.Format("2006-01-02")
	if t.IsOverdue(time.Now()) {
		due = OverdueStyle.Render(due + " (overdue)")
	}
	s.WriteString(fmt.Sprintf("Due:       %s\n", due))
	s.WriteString(fmt.Sprintf("Assignee:  %s\n\n", t.AssignedUser))

	s.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Comments (%d)", len(t.Comments))) + "\n")
	for _, c := range t.Comments {
		s.WriteString(HelpStyle.Render(fmt.Sprintf("%s · %s", c.Author, c.CreatedAt.Format("Jan 2 15:04"))) + "\n")
		s.WriteString("  " + c.Text + "\n")
	}

	s.WriteString("\n" + HelpStyle.Render("Press any key to close"))
	return ModalStyle.Width(width).Render(s.String())
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───────╮
│                              │
│  Navigation                  │
│  ──────────                  │
│  j/k     Move down/up        │
│  h/l     Previous/next column│
│  Tab     Switch pane         │
│  Enter   Open board / task   │
│  b       All projects        │
│  s       Toggle sidebar      │
│                              │
│  Tasks                       │
│  ─────                       │
│  a       Add task            │
│  e       Edit title          │
│  H/L     Move card           │
│  x       Mark done           │
│  c       Comment             │
│  d       Delete              │
│                              │
│  Projects                    │
│  ────────                    │
│  p       New project         │
│  r       Rename project      │
│  R       Reload              │
│  t       Cycle theme         │
│                              │
│  ?       Toggle help         │
│  q       Quit                │
│                              │
╰──────────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
