// Package version holds build metadata injected at link time.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/gitbatch/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Resolved returns Version, falling back to the main module version recorded
// by `go install` when no ldflags were given.
func Resolved() string {
	if Version != "unknown" && Version != "" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "unknown"
}

// String renders the line printed by --version.
func String() string {
	s := "gitbatch " + Resolved()
	if GitCommit != "unknown" && GitCommit != "" {
		s += fmt.Sprintf(" (commit %s, built %s)", GitCommit, BuildTime)
	}
	return s
}
