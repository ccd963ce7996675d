// Package version holds build metadata stamped in by the release pipeline
// via -ldflags.
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
