// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/chartgeom/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/chartgeom/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/chartgeom/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Without ldflags, the commit falls back to the VCS revision the Go
// toolchain stamps into the binary.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, revision(), Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, revision(), Date)
}

// CacheScope returns the prefix that keeps cached geometry from one build
// away from another. Release builds use the version; dev builds add the
// short commit, since layout code changes between commits.
func CacheScope() string {
	return scope(Version, revision())
}

func scope(version, commit string) string {
	if version != "dev" || commit == "none" {
		return version
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	return version + "+" + commit
}

// revision returns Commit, or the stamped vcs.revision when Commit was not
// set at link time.
func revision() string {
	if Commit != "none" {
		return Commit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Commit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return Commit
}
