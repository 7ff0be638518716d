// Package version holds build metadata injected via ldflags.
package version

// Name identifies the service in logs and metrics.
const Name = "screener"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
