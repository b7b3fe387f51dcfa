// Package config provides user-level configuration for missionctl, stored
// in ~/.config/missionctl/config.yaml. Command-line flags override anything
// read from the file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/missionctl/missionctl/pkg/paths"
)

// CurrentVersion is the current version of the config format.
const CurrentVersion = "v1"

// DefaultServerURL is used when neither the config file nor the --server
// flag names a backend.
const DefaultServerURL = "http://localhost:7465"

// DefaultTheme is the console theme used when the config file does not name
// one.
const DefaultTheme = "dark"

// Config is the user-level missionctl configuration.
type Config struct {
	// Version is the config format version
	Version string `yaml:"version,omitempty"`
	// ServerURL is the control backend base URL
	ServerURL string `yaml:"server_url,omitempty"`
	// Token is the bearer token sent to the backend
	Token string `yaml:"token,omitempty"`
	// Theme selects the console markdown theme, a standard glamour style
	// name such as "dark", "light" or "dracula"
	Theme string `yaml:"theme,omitempty"`
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(paths.ConfigDir(), "config.yaml")
}

// Load reads the user configuration. A missing file yields defaults, not an
// error.
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.saveTo(Path())
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	c.Version = CurrentVersion

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// Server resolves the backend URL: the flag value when set, then the config
// file, then the default.
func (c *Config) Server(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if c.ServerURL != "" {
		return c.ServerURL
	}
	return DefaultServerURL
}

// AuthToken resolves the bearer token: the flag value when set, then the
// config file.
func (c *Config) AuthToken(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return c.Token
}

// ConsoleTheme resolves the console theme, falling back to the default when
// the config file does not set one.
func (c *Config) ConsoleTheme() string {
	if c.Theme != "" {
		return c.Theme
	}
	return DefaultTheme
}
