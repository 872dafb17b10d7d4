// Package config handles the XDG configuration directory, config.yaml and file paths.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Backends.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
)

const (
	// DefaultBaseURL is the local REST service.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTimeout bounds each backend call.
	DefaultTimeout = 5 * time.Second
)

// ErrAuth marks missing or unusable credentials.
var ErrAuth = errors.New("auth error")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the task backend: "rest" or "googletasks".
	Backend string

	// BaseURL is the REST backend base URL.
	BaseURL string

	// Timeout bounds each backend call.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// In is the input stream for prompts and the shell. Nil disables prompting.
	In io.Reader
}

// fileConfig is the on-disk shape of config.yaml.
type fileConfig struct {
	Backend string `yaml:"backend,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
// Settings come from config.yaml when present, then TODO_BACKEND and TODO_BASE_URL.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		Backend: BackendREST,
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}

	if err := cfg.load(); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(os.Getenv("TODO_BACKEND")); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile returns the settings stored in config.yaml, zero if absent.
func (c *Config) readFile() (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(c.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return fc, nil
}

func (c *Config) load() error {
	fc, err := c.readFile()
	if err != nil {
		return err
	}

	if fc.Backend != "" {
		c.Backend = fc.Backend
	}
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid %s: timeout: %w", ConfigFile, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks the backend name and timeout.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendREST, BackendGoogleTasks:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %s", c.Timeout)
	}
	return nil
}

// SaveBackend records backend in config.yaml and selects it for this run.
// Other stored settings are kept as they are on disk; flag and environment
// overrides are never written. Reports whether the file changed.
func (c *Config) SaveBackend(backend string) (changed bool, err error) {
	switch backend {
	case BackendREST, BackendGoogleTasks:
	default:
		return false, fmt.Errorf("unknown backend: %s", backend)
	}

	fc, err := c.readFile()
	if err != nil {
		return false, err
	}
	c.Backend = backend
	if fc.Backend == backend {
		return false, nil
	}
	fc.Backend = backend

	if err := c.EnsureDir(); err != nil {
		return false, err
	}
	data, err := yaml.Marshal(fc)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(c.Path(), data, 0600); err != nil {
		return false, err
	}
	return true, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
