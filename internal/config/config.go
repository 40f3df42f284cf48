package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Backends
const (
	BackendLocal  = "local"  // sqlite file on this machine
	BackendRemote = "remote" // planify-server over HTTP
	BackendMemory = "memory" // nothing persisted, for demos
)

// Config holds user preferences
type Config struct {
	Backend       string `yaml:"backend" json:"backend"`               // local, remote or memory
	DBPath        string `yaml:"db_path" json:"db_path"`               // sqlite file for the local backend
	ServerURL     string `yaml:"server_url" json:"server_url"`         // planify-server base URL for the remote backend
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	path string
}

// Dir returns ~/.planify, or PLANIFY_HOME when set
func Dir() string {
	if dir := os.Getenv("PLANIFY_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".planify")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Backend:       getEnv("PLANIFY_BACKEND", BackendLocal),
		DBPath:        getEnv("PLANIFY_DB", filepath.Join(dir, "planify.db")),
		ServerURL:     getEnv("PLANIFY_SERVER", "http://localhost:8080"),
		ConfirmDelete: true,
		LogLevel:      getEnv("PLANIFY_LOG_LEVEL", "INFO"),
		LogFile:       getEnv("PLANIFY_LOG_FILE", filepath.Join(dir, "logs", "planify.log")),
		LogConsole:    getEnv("PLANIFY_LOG_CONSOLE", "false") == "true",
		path:          filepath.Join(dir, "config.yaml"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load loads config from ~/.planify/config.yaml
func Load() (*Config, error) {
	return LoadFrom(filepath.Join(Dir(), "config.yaml"))
}

// LoadFrom loads config from path, returning defaults if it does not exist
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend name
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal, BackendRemote, BackendMemory:
		return nil
	}
	return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendLocal, BackendRemote, BackendMemory)
}

// Path returns the file the config is saved to
func (c *Config) Path() string {
	return c.path
}

// Save saves config to the file it was loaded from
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
