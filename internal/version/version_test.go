package version

import (
	"runtime/debug"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	// Default value should be "unknown" until set by build
	if Version != "unknown" {
		t.Logf("Version is: %s (expected 'unknown' or version set via ldflags)", Version)
	}
}

func TestBuildInfo(t *testing.T) {
	if BuildTime == "" {
		t.Error("BuildTime should be initialized")
	}

	if GitCommit == "" {
		t.Error("GitCommit should be initialized")
	}
}

func withVars(t *testing.T, version, commit, built string, info *debug.BuildInfo) {
	t.Helper()
	oldV, oldC, oldB, oldRead := Version, GitCommit, BuildTime, readBuildInfo
	t.Cleanup(func() { Version, GitCommit, BuildTime, readBuildInfo = oldV, oldC, oldB, oldRead })
	Version, GitCommit, BuildTime = version, commit, built
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func TestString(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		info    *debug.BuildInfo
		want    string
	}{
		{"ldflags", "v1.2.3", "unknown", nil, "gitbatch v1.2.3"},
		{"ldflags with commit", "v1.2.3", "abc1234", nil, "gitbatch v1.2.3 (commit abc1234, built 2026-01-01)"},
		{"module version", "unknown", "unknown", &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}, "gitbatch v0.4.0"},
		{"devel build", "unknown", "unknown", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "gitbatch unknown"},
		{"no build info", "unknown", "unknown", nil, "gitbatch unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVars(t, tt.version, tt.commit, "2026-01-01", tt.info)
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
