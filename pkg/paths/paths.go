package paths

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the user's config directory for missionctl.
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory. This is a best-effort fallback and
// not intended to be a security boundary.
func ConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".missionctl-config"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".config", "missionctl"))
}

// DataDir returns the user's data directory for missionctl (logs, caches).
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory.
func DataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".missionctl"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".missionctl"))
}
