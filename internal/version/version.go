package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the regen CLI.
// These variables can be overridden at build time via -ldflags.

const (
	major = "0"
	minor = "3"
	patch = "0"
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = major + "." + minor + "." + patch + "-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with each numeric part in its own color. When
// color output is disabled it returns Version unchanged.
func Colored() string {
	parts := strings.SplitN(Version, ".", 3)
	if color.NoColor || len(parts) != 3 {
		return Version
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2])
}
