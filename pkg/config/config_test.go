package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.ServerURL)
	assert.Empty(t, cfg.Token)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &Config{
		ServerURL: "https://agent.example.com",
		Token:     "secret",
		Theme:     "light",
	}
	require.NoError(t, cfg.saveTo(path))

	loaded, err := loadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, loaded.Version)
	assert.Equal(t, "https://agent.example.com", loaded.ServerURL)
	assert.Equal(t, "secret", loaded.Token)
	assert.Equal(t, "light", loaded.Theme)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: [not: closed"), 0o600))

	_, err := loadFrom(path)
	assert.Error(t, err)
}

func TestServerResolution(t *testing.T) {
	cfg := &Config{ServerURL: "https://from-file"}

	assert.Equal(t, "https://from-flag", cfg.Server("https://from-flag"))
	assert.Equal(t, "https://from-file", cfg.Server(""))
	assert.Equal(t, DefaultServerURL, (&Config{}).Server(""))
}

func TestAuthTokenResolution(t *testing.T) {
	cfg := &Config{Token: "file-token"}

	assert.Equal(t, "flag-token", cfg.AuthToken("flag-token"))
	assert.Equal(t, "file-token", cfg.AuthToken(""))
	assert.Empty(t, (&Config{}).AuthToken(""))
}

func TestConsoleThemeResolution(t *testing.T) {
	assert.Equal(t, "light", (&Config{Theme: "light"}).ConsoleTheme())
	assert.Equal(t, DefaultTheme, (&Config{}).ConsoleTheme())
}
