// Package version carries build metadata, set at link time with
// -ldflags "-X github.com/banshee-data/waterfall.report/internal/version.Version=...".
package version

import "fmt"

var (
	// Version is the release tag, "dev" for local builds.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is when the binary was linked.
	BuildTime = "unknown"
)

// String formats the build metadata for a named program.
func String(program string) string {
	return fmt.Sprintf("%s %s (%s, built %s)", program, Version, GitSHA, BuildTime)
}
