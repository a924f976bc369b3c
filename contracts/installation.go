package contracts

import "github.com/jeffora/shimmer/release"

// InstallationRequest names where a release comes from and where it lands
// locally. RemoteAddress is whatever the fetch package's Classify accepted
// (an http(s) URL or a local directory path); LocalPath is the installation
// root (see spec.md §3, "Installation Layout").
type InstallationRequest struct {
	RemoteAddress string
	LocalPath     string
}

// IntegrityCheck verifies that a release's artifact already in the local
// store matches its manifest entry. store.Store implements this directly.
type IntegrityCheck interface {
	Verify(entry release.Entry) error
}

// UpdateInfo is the plan record spec.md §3 describes. It is the return value
// of the planner (package plan) and the input to the delta composer and
// installer.
type UpdateInfo struct {
	CurrentlyInstalledVersion *release.Entry
	ReleasesToApply           []release.Entry
	FutureReleaseEntry        release.Entry
	PackageDirectory          string
	AppFrameworkVersion       string
	IsBootstrapping           bool
	// FallbackReason is set when the planner could not compose a contiguous
	// delta chain and fell back to the largest full release (spec.md §4.6's
	// closing sentence); empty otherwise. Diagnostic only.
	FallbackReason string
}
