package store

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"strings"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/release"
)

// Store is the local cache of downloaded release artifacts, rooted at a
// single packages directory. It writes downloaded artifacts there; composed
// packages and the RELEASES file are written into the same directory by the
// delta and installer packages.
type Store struct {
	fileSystem  contracts.FileSystem
	packagesDir string
}

func NewStore(fileSystem contracts.FileSystem, packagesDir string) *Store {
	return &Store{fileSystem: fileSystem, packagesDir: packagesDir}
}

// Path returns the canonical on-disk location of entry's artifact.
func (this *Store) Path(entry release.Entry) string {
	return release.ComposePackagePath(this.packagesDir, entry.Filename)
}

// Exists reports whether entry's artifact is already present locally and
// passes Verify, so callers can skip a redundant download.
func (this *Store) Exists(entry release.Entry) bool {
	return this.Verify(entry) == nil
}

// Put streams source into the store under entry's canonical path, hashing as
// it writes. If the written size or digest doesn't match entry, the partial
// file is removed and a typed contracts error is returned so the caller can
// safely retry the download.
func (this *Store) Put(entry release.Entry, source io.Reader) error {
	destination, err := this.fileSystem.Create(this.Path(entry))
	if err != nil {
		return err
	}
	hasher := sha1.New()
	written, copyErr := io.Copy(newHashWriter(destination, hasher), source)
	closeErr := destination.Close()
	if copyErr != nil {
		_ = this.fileSystem.Delete(this.Path(entry))
		return copyErr
	}
	if closeErr != nil {
		_ = this.fileSystem.Delete(this.Path(entry))
		return closeErr
	}
	if written != entry.Filesize {
		_ = this.fileSystem.Delete(this.Path(entry))
		return contracts.ErrSizeMismatch
	}
	digest := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(digest, entry.SHA1) {
		_ = this.fileSystem.Delete(this.Path(entry))
		return contracts.ErrDigestMismatch
	}
	return nil
}

// Verify re-hashes an already-stored artifact and compares it against entry,
// without re-downloading. A missing file reports contracts.ErrArtifactMissing.
func (this *Store) Verify(entry release.Entry) error {
	info, err := this.fileSystem.Stat(this.Path(entry))
	if err != nil {
		return contracts.ErrArtifactMissing
	}
	if info.Size() != entry.Filesize {
		_ = this.fileSystem.Delete(this.Path(entry))
		return contracts.ErrSizeMismatch
	}
	reader, err := this.fileSystem.Open(this.Path(entry))
	if err != nil {
		return contracts.ErrArtifactMissing
	}
	defer func() { _ = reader.Close() }()

	hasher := sha1.New()
	if _, err := io.Copy(hasher, reader); err != nil {
		return err
	}
	digest := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(digest, entry.SHA1) {
		_ = this.fileSystem.Delete(this.Path(entry))
		return contracts.ErrDigestMismatch
	}
	return nil
}

// Prune deletes every file under the packages directory, other than
// RELEASES, that isn't named by keep, used after a successful install to discard artifacts the current
// manifest no longer references (spec.md §4.9's "no dead packages" invariant).
func (this *Store) Prune(keep release.Manifest) error {
	wanted := make(map[string]bool, len(keep.Entries))
	for _, entry := range keep.Entries {
		wanted[entry.Filename] = true
	}
	listing, err := this.fileSystem.Listing(this.packagesDir)
	if err != nil {
		return err
	}
	for _, file := range listing {
		if strings.EqualFold(file.Path(), "RELEASES") {
			continue
		}
		if wanted[strings.ToLower(file.Path())] {
			continue
		}
		if err := this.fileSystem.Delete(release.ComposePackagePath(this.packagesDir, file.Path())); err != nil {
			return err
		}
	}
	return nil
}
