package tui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/planify/internal/board"
	"github.com/existflow/planify/internal/config"
	"github.com/existflow/planify/internal/model"
)

// Color palette. Each color has a light-background and a dark-background
// variant; applyTheme picks which one renders.
var (
	// Priority colors
	PriorityHighColor   = lipgloss.AdaptiveColor{Light: "#C92A2A", Dark: "#FF6B6B"}
	PriorityMediumColor = lipgloss.AdaptiveColor{Light: "#B08900", Dark: "#FFE66D"}
	PriorityLowColor    = lipgloss.AdaptiveColor{Light: "#0B7285", Dark: "#4ECDC4"}

	// Column colors
	TodoColor       = lipgloss.AdaptiveColor{Light: "#495057", Dark: "#6C757D"}
	InProgressColor = lipgloss.AdaptiveColor{Light: "#D9480F", Dark: "#FFB347"}
	DoneColor       = lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#95E1A3"}

	// Notification colors
	SuccessColor = lipgloss.AdaptiveColor{Light: "#2B8A3E", Dark: "#95E1A3"}
	ErrorColor   = lipgloss.AdaptiveColor{Light: "#C92A2A", Dark: "#FF6B6B"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#B08900", Dark: "#FFE66D"}
	InfoColor    = lipgloss.AdaptiveColor{Light: "#0B7285", Dark: "#4ECDC4"}

	// UI colors
	Primary   = lipgloss.AdaptiveColor{Light: "#0B7285", Dark: "#4ECDC4"}
	Surface   = lipgloss.AdaptiveColor{Light: "#E9ECEF", Dark: "#16213e"}
	TextMuted = lipgloss.AdaptiveColor{Light: "#868E96", Dark: "#888888"}
	Border    = lipgloss.AdaptiveColor{Light: "#CED4DA", Dark: "#333333"}
)

var (
	detectOnce   sync.Once
	terminalDark bool
)

// applyTheme switches the palette. ThemeAuto goes back to whatever the
// terminal reported before the first override.
func applyTheme(theme string) {
	detectOnce.Do(func() { terminalDark = lipgloss.HasDarkBackground() })
	switch theme {
	case config.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case config.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	default:
		lipgloss.SetHasDarkBackground(terminalDark)
	}
}

// nextTheme cycles auto, dark, light
func nextTheme(theme string) string {
	switch theme {
	case config.ThemeAuto:
		return config.ThemeDark
	case config.ThemeDark:
		return config.ThemeLight
	default:
		return config.ThemeAuto
	}
}

// Styles
var (
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	BoardStyle = lipgloss.NewStyle().
			Padding(1, 1)

	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	ColumnFocusedStyle = ColumnStyle.
				BorderForeground(Primary)

	ProjectItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	ProjectItemSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(Surface).
					Bold(true)

	CardStyle = lipgloss.NewStyle()

	CardSelectedStyle = lipgloss.NewStyle().
				Background(Surface).
				Bold(true)

	CardDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true)

	OverdueStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// GetPriorityStyle returns the style for a given priority
func GetPriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(PriorityHighColor).Bold(true)
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(PriorityMediumColor)
	default:
		return lipgloss.NewStyle().Foreground(PriorityLowColor)
	}
}

// FormatPriority renders a short priority badge
func FormatPriority(p model.Priority) string {
	label := "L"
	switch p {
	case model.PriorityHigh:
		label = "H"
	case model.PriorityMedium:
		label = "M"
	}
	return GetPriorityStyle(p).Render(label)
}

// StatusColor returns the header color of a board column
func StatusColor(s model.Status) lipgloss.TerminalColor {
	switch s {
	case model.StatusInProgress:
		return InProgressColor
	case model.StatusDone:
		return DoneColor
	default:
		return TodoColor
	}
}

// NotificationStyle colors the status bar message by kind
func NotificationStyle(k board.Kind) lipgloss.Style {
	switch k {
	case board.KindSuccess:
		return lipgloss.NewStyle().Foreground(SuccessColor)
	case board.KindError:
		return lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	case board.KindWarning:
		return lipgloss.NewStyle().Foreground(WarningColor)
	default:
		return lipgloss.NewStyle().Foreground(InfoColor)
	}
}
