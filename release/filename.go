package release

import (
	"fmt"
	"strings"
)

const deltaSuffix = "-delta.nupkg"
const fullSuffix = ".nupkg"

// ClassifyFilename implements spec.md §4.2's filename grammar:
// <packageId>-<version>(-delta)?.nupkg, matched case-insensitively. It
// returns the package id, the parsed version, and whether the filename
// denotes a delta package.
//
// A filename containing a path separator or a ".." segment is rejected
// outright: spec.md §3 states a release's filename carries "no path
// separators", and a RELEASES line naming one is corrupt input, not a
// release this module will ever write to disk under a caller-controlled
// path (closing the path-traversal gap the distilled spec assumes but never
// states explicitly; see SPEC_FULL.md).
func ClassifyFilename(name string) (packageID string, version Version, isDelta bool, err error) {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", Version{}, false, fmt.Errorf("filename %q must not contain path separators", name)
	}
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, fullSuffix) {
		return "", Version{}, false, fmt.Errorf("filename %q does not end in .nupkg", name)
	}

	stem := name[:len(name)-len(fullSuffix)]
	isDelta = strings.HasSuffix(strings.ToLower(stem), "-delta")
	if isDelta {
		stem = stem[:len(stem)-len("-delta")]
	}

	idx := lastVersionDash(stem)
	if idx < 0 {
		return "", Version{}, false, fmt.Errorf("filename %q has no <packageId>-<version> separator", name)
	}
	packageID = stem[:idx]
	versionStr := stem[idx+1:]
	if packageID == "" {
		return "", Version{}, false, fmt.Errorf("filename %q has an empty package id", name)
	}
	version, err = ParseVersion(versionStr)
	if err != nil {
		return "", Version{}, false, fmt.Errorf("filename %q: %w", name, err)
	}
	return packageID, version, isDelta, nil
}

// lastVersionDash finds the '-' that separates the package id from the
// version component: the rightmost '-' whose suffix parses as a version.
// Package ids are themselves free to contain dashes (e.g. "My-App-1.2.3.nupkg"),
// so this scans from the right rather than assuming the first dash.
func lastVersionDash(stem string) int {
	for i := len(stem) - 1; i >= 0; i-- {
		if stem[i] != '-' {
			continue
		}
		if _, err := ParseVersion(stem[i+1:]); err == nil {
			return i
		}
	}
	return -1
}

// ComposePackagePath returns the canonical path for a release artifact under
// the given packages directory.
func ComposePackagePath(packagesDir, filename string) string {
	return packagesDir + "/" + filename
}

// ComposeFullFilename derives the full-package filename that applying a
// delta's chain eventually produces: the delta's own filename with its
// "-delta" suffix removed, per spec.md §4.7 step 2.
func ComposeFullFilename(deltaFilename string) (string, error) {
	lower := strings.ToLower(deltaFilename)
	if !strings.HasSuffix(lower, deltaSuffix) {
		return "", fmt.Errorf("filename %q is not a delta package", deltaFilename)
	}
	return deltaFilename[:len(deltaFilename)-len(deltaSuffix)] + fullSuffix, nil
}
