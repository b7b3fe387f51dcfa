package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingFileWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	rf, err := NewRotatingFile(path, WithMaxBytes(100), WithBackups(2))
	require.NoError(t, err)
	defer rf.Close()

	data := []byte("hello world\n")
	n, err := rf.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, content)
}

func TestRotatingFileRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	rf, err := NewRotatingFile(path, WithMaxBytes(50), WithBackups(2))
	require.NoError(t, err)
	defer rf.Close()

	data := bytes.Repeat([]byte("a"), 30)
	_, err = rf.Write(data)
	require.NoError(t, err)

	// Second write exceeds the cap and forces a rotation first.
	_, err = rf.Write(data)
	require.NoError(t, err)

	backup, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, data, backup)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, content)
}

func TestRotatingFileBackupLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	rf, err := NewRotatingFile(path, WithMaxBytes(20), WithBackups(2))
	require.NoError(t, err)
	defer rf.Close()

	for i := range 4 {
		data := bytes.Repeat([]byte{byte('a' + i)}, 15)
		_, err = rf.Write(data)
		require.NoError(t, err)
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		_, err = os.Stat(p)
		require.NoError(t, err, "%s should exist", p)
	}

	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err), "rotation must not keep more than 2 backups")
}

func TestRotatingFileAppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0o600))

	rf, err := NewRotatingFile(path, WithMaxBytes(1000))
	require.NoError(t, err)
	defer rf.Close()

	_, err = rf.Write([]byte("new\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nnew\n", string(content))
}

func TestRotatingFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs", "debug.log")

	rf, err := NewRotatingFile(path)
	require.NoError(t, err)
	defer rf.Close()

	_, err = rf.Write([]byte("test"))
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
}
