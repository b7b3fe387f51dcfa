package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := NewFromPath(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	return h
}

func TestRecallOrder(t *testing.T) {
	h := newTestHistory(t)
	require.NoError(t, h.Add("first"))
	require.NoError(t, h.Add("second"))
	require.NoError(t, h.Add("third"))

	assert.Equal(t, "third", h.Previous())
	assert.Equal(t, "second", h.Previous())
	assert.Equal(t, "first", h.Previous())
	// Stays at the oldest entry.
	assert.Equal(t, "first", h.Previous())

	assert.Equal(t, "second", h.Next())
	assert.Equal(t, "third", h.Next())
	// Past the newest, input clears.
	assert.Equal(t, "", h.Next())
}

func TestAddDeduplicates(t *testing.T) {
	h := newTestHistory(t)
	require.NoError(t, h.Add("deploy"))
	require.NoError(t, h.Add("status"))
	require.NoError(t, h.Add("deploy"))

	assert.Equal(t, []string{"status", "deploy"}, h.Messages)
}

func TestPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	h, err := NewFromPath(path)
	require.NoError(t, err)
	require.NoError(t, h.Add("remember me"))

	reloaded, err := NewFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"remember me"}, reloaded.Messages)
	assert.Equal(t, "remember me", reloaded.Previous())
}

func TestEmptyHistory(t *testing.T) {
	h := newTestHistory(t)
	assert.Equal(t, "", h.Previous())
	assert.Equal(t, "", h.Next())
}
