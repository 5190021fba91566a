// Package version holds the wsmanager release version.
package version

// Version is the release version. Overridden at build time with
// -ldflags "-X github.com/hashicorp-forge/wsmanager/internal/version.Version=...".
var Version = "0.1.0"

// GitCommit is the commit the binary was built from, if known.
var GitCommit = ""

// HumanVersion returns the version with the commit appended when set.
func HumanVersion() string {
	if GitCommit == "" {
		return "v" + Version
	}
	return "v" + Version + " (" + GitCommit + ")"
}
