// Package remote implements the persistence gateway against the planify
// server's HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/existflow/planify/internal/config"
	"github.com/existflow/planify/internal/gateway"
)

// Config holds the server location and credentials
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
}

// Client talks to the planify server
type Client struct {
	config     *Config
	configPath string
	httpClient *http.Client
	now        func() time.Time
}

var _ gateway.Gateway = (*Client)(nil)

// DefaultConfigPath returns ~/.planify/session.json
func DefaultConfigPath() (string, error) {
	return filepath.Join(config.Dir(), "session.json"), nil
}

// NewClient loads credentials from the default path
func NewClient() (*Client, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return NewClientFromFile(path)
}

// NewClientFromFile loads credentials from path; a missing file yields a
// logged-out client pointing at localhost.
func NewClientFromFile(path string) (*Client, error) {
	c := &Client{
		configPath: path,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
	if err := c.loadConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

// New returns a client that keeps its credentials in memory only
func New(serverURL, token string) *Client {
	return &Client{
		config:     &Config{ServerURL: strings.TrimRight(serverURL, "/"), Token: token},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

func (c *Client) loadConfig() error {
	data, err := os.ReadFile(c.configPath)
	if os.IsNotExist(err) {
		c.config = &Config{ServerURL: "http://localhost:8080"}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	c.config = &Config{}
	if err := json.Unmarshal(data, c.config); err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}
	return nil
}

func (c *Client) saveConfig() error {
	if c.configPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0600)
}

// SetServer sets the server URL
func (c *Client) SetServer(url string) error {
	c.config.ServerURL = strings.TrimRight(url, "/")
	return c.saveConfig()
}

// ServerURL returns the configured server
func (c *Client) ServerURL() string {
	return c.config.ServerURL
}

// IsLoggedIn returns true if a token is present
func (c *Client) IsLoggedIn() bool {
	return c.config.Token != ""
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

// Register creates an account and stores its session
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	var result authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return fmt.Errorf("register failed: %w", err)
	}

	c.config.Token = result.Token
	c.config.UserID = result.UserID
	return c.saveConfig()
}

// Login authenticates with username and password and stores the session
func (c *Client) Login(ctx context.Context, username, password string) error {
	var result authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.config.Token = result.Token
	c.config.UserID = result.UserID
	return c.saveConfig()
}

// Logout revokes the session on the server (best effort) and clears it locally
func (c *Client) Logout(ctx context.Context) error {
	if c.IsLoggedIn() {
		_ = c.do(ctx, http.MethodPost, "/api/v1/logout", nil, nil)
	}
	c.config.Token = ""
	c.config.UserID = ""
	return c.saveConfig()
}

// StatusError is a non-2xx response from the server
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Unwrap maps 404 onto gateway.ErrNotFound
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return gateway.ErrNotFound
	}
	return nil
}

// do sends a JSON request and decodes a JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &StatusError{Code: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
