package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the current released version.
// Override at build time:
//
//	go build -ldflags "-X github.com/hrygo/cadsense/internal/version.Version=0.3.0"
var Version = "0.1.0-dev"

// GitCommit is the git commit hash at build time.
var GitCommit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// IsValid reports whether v (without the leading "v") is a semantic version.
func IsValid(v string) bool {
	return semver.IsValid("v" + v)
}

// IsRelease reports whether v is a valid semantic version without a prerelease suffix.
func IsRelease(v string) bool {
	return IsValid(v) && semver.Prerelease("v"+v) == ""
}

// GetCurrentVersion returns the version, tagged "-dev" outside prod for non-release builds.
func GetCurrentVersion(mode string) string {
	if mode != "prod" && IsRelease(Version) {
		return Version + "-dev"
	}
	return Version
}

// String returns the version string with optional short commit hash.
func String() string {
	v := Version
	if GitCommit != "" && GitCommit != "unknown" {
		shortCommit := GitCommit
		if len(shortCommit) > 8 {
			shortCommit = shortCommit[:8]
		}
		v = fmt.Sprintf("%s-%s", v, shortCommit)
	}
	return v
}

// StringFull returns the complete version information including build metadata.
func StringFull() string {
	parts := []string{fmt.Sprintf("Version=%s", String())}
	if !IsValid(Version) {
		parts = append(parts, "Semver=invalid")
	}
	if BuildTime != "" && BuildTime != "unknown" {
		parts = append(parts, fmt.Sprintf("BuildTime=%s", BuildTime))
	}
	return strings.Join(parts, " ")
}
