package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Pages the app can open on
const (
	PageProjects  = "projects"
	PageDashboard = "dashboard"
)

// Themes. ThemeAuto follows the terminal's background.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

func validTheme(t string) bool {
	return t == ThemeAuto || t == ThemeLight || t == ThemeDark
}

// Prefs is view state remembered between runs. Every setter writes the file.
type Prefs struct {
	ActivePage  string `yaml:"active_page"`
	SidebarOpen bool   `yaml:"sidebar_open"`
	LastProject string `yaml:"last_project"`
	Theme       string `yaml:"theme"`

	mu   sync.Mutex
	path string
}

// DefaultPrefs returns the first-run view state: the dashboard, with the
// project sidebar shown since it is the only way to reach a board
func DefaultPrefs() *Prefs {
	return &Prefs{
		ActivePage:  PageDashboard,
		SidebarOpen: true,
		Theme:       ThemeAuto,
		path:        filepath.Join(Dir(), "prefs.yaml"),
	}
}

// LoadPrefs reads ~/.planify/prefs.yaml
func LoadPrefs() (*Prefs, error) {
	return LoadPrefsFrom(filepath.Join(Dir(), "prefs.yaml"))
}

// LoadPrefsFrom reads prefs from path. A missing file yields defaults; an
// unreadable one yields defaults and the error, so a corrupt file never
// blocks startup.
func LoadPrefsFrom(path string) (*Prefs, error) {
	p := DefaultPrefs()
	p.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("failed to read prefs: %w", err)
	}

	stored := Prefs{ActivePage: p.ActivePage, SidebarOpen: p.SidebarOpen, Theme: p.Theme}
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return p, fmt.Errorf("failed to parse prefs: %w", err)
	}
	p.ActivePage = stored.ActivePage
	p.SidebarOpen = stored.SidebarOpen
	p.LastProject = stored.LastProject
	p.Theme = stored.Theme
	if p.ActivePage != PageProjects && p.ActivePage != PageDashboard {
		p.ActivePage = PageDashboard
	}
	if !validTheme(p.Theme) {
		p.Theme = ThemeAuto
	}
	return p, nil
}

// Snapshot returns the current values
func (p *Prefs) Snapshot() (page string, sidebarOpen bool, lastProject string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ActivePage, p.SidebarOpen, p.LastProject
}

// CurrentTheme returns the color theme
func (p *Prefs) CurrentTheme() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Theme
}

// SetActivePage records the open page
func (p *Prefs) SetActivePage(page string) error {
	if page != PageProjects && page != PageDashboard {
		return fmt.Errorf("unknown page %q", page)
	}
	return p.update(func() { p.ActivePage = page })
}

// SetSidebarOpen records whether the sidebar is shown
func (p *Prefs) SetSidebarOpen(open bool) error {
	return p.update(func() { p.SidebarOpen = open })
}

// SetTheme records the color theme
func (p *Prefs) SetTheme(theme string) error {
	if !validTheme(theme) {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return p.update(func() { p.Theme = theme })
}

// SetLastProject records the most recently opened board. Empty clears it.
func (p *Prefs) SetLastProject(id string) error {
	return p.update(func() { p.LastProject = id })
}

func (p *Prefs) update(fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
	return p.save()
}

// save must be called with mu held
func (p *Prefs) save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(struct {
		ActivePage  string `yaml:"active_page"`
		SidebarOpen bool   `yaml:"sidebar_open"`
		LastProject string `yaml:"last_project"`
		Theme       string `yaml:"theme"`
	}{p.ActivePage, p.SidebarOpen, p.LastProject, p.Theme})
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}
