package installer

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"strings"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/release"
	"github.com/jeffora/shimmer/store"
)

// RewriteManifest implements C10: it rescans every .nupkg under
// <root>/packages, rehashes each one, and replaces packages/RELEASES whole.
// This is the installer's sole "publish" step (spec.md §4.8
// REWRITE_MANIFEST, invariant 1) — the manifest on disk only ever changes by
// this function overwriting it in one call, so a crash anywhere before it
// runs leaves the previous manifest, and thus the previous CurrentVersion,
// intact.
//
// Once the scan settles on a current version, it prunes everything else out
// of packages/: superseded full releases, already-applied delta packages,
// and the intermediate full packages a delta chain composes along the way
// (spec.md §4.7, "intermediate composed artifacts are kept on disk; they
// will be reclaimed by the next successful manifest rewrite"). The written
// manifest names only what survives pruning.
func RewriteManifest(fileSystem contracts.FileSystem, root string) (release.Manifest, error) {
	packagesDir := root + "/packages"

	listing, err := fileSystem.Listing(packagesDir)
	if err != nil {
		return release.Manifest{}, err
	}

	var scanned release.Manifest
	for _, file := range listing {
		name := file.Path()
		if !strings.HasSuffix(strings.ToLower(name), ".nupkg") {
			continue
		}
		digest, err := hashPackage(fileSystem, release.ComposePackagePath(packagesDir, name))
		if err != nil {
			return release.Manifest{}, err
		}
		entry, err := release.NewEntry(digest, name, file.Size())
		if err != nil {
			return release.Manifest{}, err
		}
		scanned.Entries = append(scanned.Entries, entry)
	}
	scanned.Sort()

	manifest := scanned
	if current := scanned.CurrentVersion(); current != nil {
		manifest = release.Manifest{Entries: []release.Entry{*current}}
	}

	if err := store.NewStore(fileSystem, packagesDir).Prune(manifest); err != nil {
		return release.Manifest{}, err
	}

	var buffer strings.Builder
	if _, err := manifest.WriteTo(&buffer); err != nil {
		return release.Manifest{}, err
	}
	if err := fileSystem.WriteFile(packagesDir+"/RELEASES", []byte(buffer.String())); err != nil {
		return release.Manifest{}, err
	}
	return manifest, nil
}

func hashPackage(fileSystem contracts.FileSystem, path string) (string, error) {
	reader, err := fileSystem.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = reader.Close() }()

	hasher := sha1.New()
	if _, err := io.Copy(hasher, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
