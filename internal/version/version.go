package version

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the application version, schema migrations are keyed by its
// minor part.
var Version = "0.2.0"

func GetCurrentVersion() string {
	return Version
}

// GetMinorVersion returns "0.2" for "0.2.5".
func GetMinorVersion(version string) string {
	return strings.TrimPrefix(semver.MajorMinor(canonical(version)), "v")
}

// GetSchemaVersion drops the patch part, patches never change the schema.
func GetSchemaVersion(version string) string {
	return GetMinorVersion(version) + ".0"
}

// IsVersionGreaterOrEqualThan reports whether version >= target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(canonical(version), canonical(target)) >= 0
}

// IsVersionGreaterThan reports whether version > target.
func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare(canonical(version), canonical(target)) > 0
}

// SortVersion sorts versions ascending in place.
func SortVersion(versions []string) {
	slices.SortFunc(versions, func(a, b string) int {
		return semver.Compare(canonical(a), canonical(b))
	})
}

// canonical accepts "0.2", "0.2.0" or "v0.2.0".
func canonical(version string) string {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return semver.Canonical(version)
}

func String() string {
	return fmt.Sprintf("booksapp %s", Version)
}
