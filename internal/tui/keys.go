package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	MoveLeft    key.Binding
	MoveRight   key.Binding
	Tab         key.Binding
	Enter       key.Binding
	Add         key.Binding
	Edit        key.Binding
	Done        key.Binding
	Delete      key.Binding
	Comment     key.Binding
	Project     key.Binding
	EditProject key.Binding
	Back        key.Binding
	Sidebar     key.Binding
	Theme       key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
	Escape      key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
	MoveLeft:    key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "move card left")),
	MoveRight:   key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "move card right")),
	Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
	Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Done:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "done")),
	Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Comment:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
	Project:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "new project")),
	EditProject: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename project")),
	Back:        key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "all projects")),
	Sidebar:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle sidebar")),
	Theme:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "cycle theme")),
	Refresh:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
