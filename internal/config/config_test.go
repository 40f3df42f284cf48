package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PLANIFY_BACKEND", "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Backend != BackendLocal || !cfg.ConfirmDelete {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Path() != path {
		t.Errorf("Path = %q", cfg.Path())
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("PLANIFY_BACKEND", BackendRemote)
	t.Setenv("PLANIFY_SERVER", "https://planify.example.com")

	cfg := DefaultConfig()
	if cfg.Backend != BackendRemote || cfg.ServerURL != "https://planify.example.com" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConfigSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	cfg.Backend = BackendMemory
	cfg.LogLevel = "DEBUG"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Backend != BackendMemory || loaded.LogLevel != "DEBUG" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadFromRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: cloud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestPrefsPersistOnEveryChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	p, err := LoadPrefsFrom(path)
	if err != nil {
		t.Fatalf("LoadPrefsFrom: %v", err)
	}
	if page, open, last := p.Snapshot(); page != PageDashboard || !open || last != "" {
		t.Fatalf("defaults = %q %v %q", page, open, last)
	}
	if theme := p.CurrentTheme(); theme != ThemeAuto {
		t.Fatalf("default theme = %q", theme)
	}

	if err := p.SetActivePage(PageProjects); err != nil {
		t.Fatalf("SetActivePage: %v", err)
	}
	if err := p.SetSidebarOpen(false); err != nil {
		t.Fatalf("SetSidebarOpen: %v", err)
	}
	if err := p.SetLastProject("p-42"); err != nil {
		t.Fatalf("SetLastProject: %v", err)
	}
	if err := p.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	reloaded, err := LoadPrefsFrom(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if page, open, last := reloaded.Snapshot(); page != PageProjects || open || last != "p-42" {
		t.Errorf("reloaded = %q %v %q", page, open, last)
	}
	if theme := reloaded.CurrentTheme(); theme != ThemeDark {
		t.Errorf("reloaded theme = %q", theme)
	}
}

func TestPrefsRejectUnknownValues(t *testing.T) {
	p, _ := LoadPrefsFrom(filepath.Join(t.TempDir(), "prefs.yaml"))
	if err := p.SetActivePage("settings"); err == nil {
		t.Error("expected error for unknown page")
	}
	if err := p.SetTheme("solarized"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestStoredUnknownValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	data := "active_page: settings\ntheme: neon\nsidebar_open: false\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPrefsFrom(path)
	if err != nil {
		t.Fatalf("LoadPrefsFrom: %v", err)
	}
	if page, open, _ := p.Snapshot(); page != PageDashboard || open {
		t.Errorf("prefs = %q %v", page, open)
	}
	if theme := p.CurrentTheme(); theme != ThemeAuto {
		t.Errorf("theme = %q", theme)
	}
}

func TestCorruptPrefsFallBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("active_page: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPrefsFrom(path)
	if err == nil {
		t.Error("expected parse error")
	}
	if page, open, _ := p.Snapshot(); page != PageDashboard || !open {
		t.Errorf("prefs = %q %v, want defaults", page, open)
	}
}
