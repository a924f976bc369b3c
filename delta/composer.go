package delta

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/release"
)

// Composer turns a plan's ReleasesToApply into the single full release entry
// that must actually be extracted, applying any delta chain along the way.
type Composer struct {
	fileSystem  contracts.FileSystem
	packagesDir string
	applier     contracts.DeltaApplier
}

func NewComposer(fileSystem contracts.FileSystem, packagesDir string, applier contracts.DeltaApplier) *Composer {
	return &Composer{fileSystem: fileSystem, packagesDir: packagesDir, applier: applier}
}

// Compose implements spec.md §4.7. releasesToApply must be either entirely
// full entries (nothing to compose; the highest-version entry is returned
// as-is) or
// entirely delta entries, in which case currentlyInstalledVersion must be
// non-nil and names the base package each delta chains from.
func (this *Composer) Compose(currentlyInstalledVersion *release.Entry, releasesToApply []release.Entry) (release.Entry, error) {
	if len(releasesToApply) == 0 {
		return release.Entry{}, fmt.Errorf("no releases to apply")
	}
	if mixed(releasesToApply) {
		return release.Entry{}, contracts.ErrMixedFullAndDelta
	}
	if !releasesToApply[0].IsDelta {
		return largestByVersion(releasesToApply), nil
	}
	if currentlyInstalledVersion == nil {
		return release.Entry{}, fmt.Errorf("a delta chain requires a currently installed version to apply against")
	}

	deltas := append([]release.Entry(nil), releasesToApply...)
	sort.Slice(deltas, func(i, j int) bool { return deltas[i].Version.Less(deltas[j].Version) })

	basePath := release.ComposePackagePath(this.packagesDir, currentlyInstalledVersion.Filename)
	var composed release.Entry
	for _, d := range deltas {
		deltaPath := release.ComposePackagePath(this.packagesDir, d.Filename)
		outFilename, err := release.ComposeFullFilename(d.Filename)
		if err != nil {
			return release.Entry{}, &contracts.DeltaApplicationFailed{Version: d.Version.String(), Cause: err}
		}
		outPath := release.ComposePackagePath(this.packagesDir, outFilename)

		if err := this.applier.Apply(basePath, deltaPath, outPath); err != nil {
			return release.Entry{}, &contracts.DeltaApplicationFailed{Version: d.Version.String(), Cause: err}
		}

		composed, err = this.hashResult(outPath, outFilename)
		if err != nil {
			return release.Entry{}, &contracts.DeltaApplicationFailed{Version: d.Version.String(), Cause: err}
		}
		basePath = outPath
	}
	return composed, nil
}

func (this *Composer) hashResult(path, filename string) (release.Entry, error) {
	info, err := this.fileSystem.Stat(path)
	if err != nil {
		return release.Entry{}, err
	}
	reader, err := this.fileSystem.Open(path)
	if err != nil {
		return release.Entry{}, err
	}
	defer func() { _ = reader.Close() }()

	hasher := sha1.New()
	if _, err := io.Copy(hasher, reader); err != nil {
		return release.Entry{}, err
	}
	return release.NewEntry(hex.EncodeToString(hasher.Sum(nil)), filename, info.Size())
}

func mixed(entries []release.Entry) bool {
	hasFull, hasDelta := false, false
	for _, e := range entries {
		if e.IsDelta {
			hasDelta = true
		} else {
			hasFull = true
		}
	}
	return hasFull && hasDelta
}

func largestByVersion(entries []release.Entry) release.Entry {
	best := entries[0]
	for _, e := range entries[1:] {
		if best.Version.Less(e.Version) {
			best = e
		}
	}
	return best
}
