// Package version holds build information set via ldflags.
package version

var (
	// Version is the missionctl version, set at build time.
	Version = "dev"
	// Commit is the git commit hash the binary was built from.
	Commit = "unknown"
)
