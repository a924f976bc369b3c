package plan

import (
	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/release"
)

// Plan implements the six-step update-planning algorithm: given the locally
// installed manifest and the remote manifest, it decides whether an update
// is warranted and, if so, exactly which releases must be applied. A nil
// *contracts.UpdateInfo with a nil error means no update is needed.
func Plan(local, remote release.Manifest, ignoreDeltaUpdates bool) (*contracts.UpdateInfo, error) {
	if len(remote.Entries) == 0 {
		return nil, contracts.ErrCorruptRemoteManifest
	}

	if identitySetsEqual(local.Entries, remote.Entries) {
		return nil, nil
	}

	candidates := remote.Entries
	if ignoreDeltaUpdates {
		candidates = withoutDeltas(candidates)
	}
	filteredRemote := release.Manifest{Entries: candidates}

	if len(local.Entries) == 0 {
		latest, ok := largestFull(filteredRemote.Entries)
		if !ok {
			return nil, contracts.ErrCorruptRemoteManifest
		}
		return &contracts.UpdateInfo{
			CurrentlyInstalledVersion: nil,
			ReleasesToApply:           []release.Entry{latest},
			FutureReleaseEntry:        latest,
			IsBootstrapping:           true,
		}, nil
	}

	if !local.MaxVersion().Less(filteredRemote.MaxVersion()) {
		latest, ok := largestFull(filteredRemote.Entries)
		if !ok {
			return nil, contracts.ErrCorruptRemoteManifest
		}
		current := local.CurrentVersion()
		return &contracts.UpdateInfo{
			CurrentlyInstalledVersion: current,
			ReleasesToApply:           []release.Entry{latest},
			FutureReleaseEntry:        latest,
			IsBootstrapping:           false,
			FallbackReason:            "local version is at or ahead of the remote manifest; reinstalling latest full release",
		}, nil
	}

	current := local.CurrentVersion()
	if current == nil {
		latest, ok := largestFull(filteredRemote.Entries)
		if !ok {
			return nil, contracts.ErrCorruptRemoteManifest
		}
		return &contracts.UpdateInfo{
			ReleasesToApply:    []release.Entry{latest},
			FutureReleaseEntry: latest,
			IsBootstrapping:    true,
			FallbackReason:     "local manifest has no full release to anchor a delta chain",
		}, nil
	}

	newer := newerThan(filteredRemote.Entries, current.Version)
	toApply, fallbackReason := chooseChain(newer)
	if len(toApply) == 0 {
		return nil, nil
	}

	future := toApply[0]
	for _, e := range toApply[1:] {
		if future.Version.Less(e.Version) {
			future = e
		}
	}

	return &contracts.UpdateInfo{
		CurrentlyInstalledVersion: current,
		ReleasesToApply:           toApply,
		FutureReleaseEntry:        future,
		IsBootstrapping:           false,
		FallbackReason:            fallbackReason,
	}, nil
}

// chooseChain picks the set of entries to apply from newer, the remote
// entries with version greater than the currently installed one: a
// contiguous delta chain when one exists, otherwise the single largest full
// release, with a diagnostic reason for the fallback.
func chooseChain(newer []release.Entry) (toApply []release.Entry, fallbackReason string) {
	fullVersions := map[release.Version]bool{}
	deltaByVersion := map[release.Version]release.Entry{}
	for _, e := range newer {
		if e.IsDelta {
			deltaByVersion[e.Version] = e
		} else {
			fullVersions[e.Version] = true
		}
	}

	if len(deltaByVersion) == 0 {
		latest, ok := largestFull(newer)
		if !ok {
			return nil, ""
		}
		return []release.Entry{latest}, ""
	}

	for version := range fullVersions {
		if _, ok := deltaByVersion[version]; !ok {
			latest, ok := largestFull(newer)
			if !ok {
				return nil, "remote delta chain has a gap and no full release is available to fall back to"
			}
			return []release.Entry{latest}, "remote delta chain has a gap at version " + version.String() + "; falling back to the largest full release"
		}
	}

	chain := make([]release.Entry, 0, len(deltaByVersion))
	for _, e := range deltaByVersion {
		chain = append(chain, e)
	}
	return chain, ""
}

func largestFull(entries []release.Entry) (release.Entry, bool) {
	var best release.Entry
	found := false
	for _, e := range entries {
		if e.IsDelta {
			continue
		}
		if !found || best.Version.Less(e.Version) {
			best = e
			found = true
		}
	}
	return best, found
}

func newerThan(entries []release.Entry, version release.Version) []release.Entry {
	var out []release.Entry
	for _, e := range entries {
		if version.Less(e.Version) {
			out = append(out, e)
		}
	}
	return out
}

func withoutDeltas(entries []release.Entry) []release.Entry {
	var out []release.Entry
	for _, e := range entries {
		if !e.IsDelta {
			out = append(out, e)
		}
	}
	return out
}

func identitySetsEqual(a, b []release.Entry) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, e := range a {
		seen[identityOf(e)]++
	}
	for _, e := range b {
		key := identityOf(e)
		if seen[key] == 0 {
			return false
		}
		seen[key]--
	}
	return true
}

func identityOf(e release.Entry) string {
	return e.Filename + "|" + e.SHA1
}
