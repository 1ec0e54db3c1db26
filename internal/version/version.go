// Package version holds the release identity reported by --version.
package version

// Version is stamped at release time:
//
//	go build -ldflags "-X git.home.luguber.info/inful/sitegen/internal/version.Version=v1.0.0"
//
// Unstamped binaries report "unknown".
var Version = "unknown"

// Release metadata stamped alongside Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)
