package installer

import (
	"strconv"
	"strings"
)

// frameworkProfileMatch implements spec.md §4.8 EXTRACT's profile rule:
// lib/netXX is included when XX <= the configured target, lib/winrt45 is
// always excluded. Paths are matched case-insensitively and normalized to
// '/' before comparison — this module's own zip entries are already
// '/'-separated, so no normalization of '\' is actually needed at runtime,
// but the comparison is written to tolerate it regardless.
func frameworkProfileMatch(zipPath string, targetProfile string) (include bool, relative string) {
	normalized := strings.ReplaceAll(zipPath, `\`, "/")
	lower := strings.ToLower(normalized)
	if !strings.HasPrefix(lower, "lib/") {
		return false, ""
	}

	remainder := normalized[len("lib/"):]
	segments := strings.SplitN(remainder, "/", 2)
	if len(segments) != 2 {
		return false, ""
	}
	profile := strings.ToLower(segments[0])

	if profile == "winrt45" {
		return false, ""
	}

	targetVersion, ok := netProfileVersion(strings.ToLower(targetProfile))
	if !ok {
		return false, ""
	}
	profileVersion, ok := netProfileVersion(profile)
	if !ok {
		return false, ""
	}
	if profileVersion > targetVersion {
		return false, ""
	}
	return true, segments[1]
}

// netProfileVersion parses "netXX" into a comparable integer, e.g. "net40"
// -> 40, "net20" -> 20, so profiles can be compared numerically rather than
// lexicographically ("net5" would otherwise sort after "net45").
func netProfileVersion(profile string) (int, bool) {
	if !strings.HasPrefix(profile, "net") {
		return 0, false
	}
	version, err := strconv.Atoi(profile[len("net"):])
	if err != nil {
		return 0, false
	}
	return version, true
}
