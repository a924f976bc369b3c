// Command shimmer-publish builds a .nupkg release from a source directory
// laid out as lib/<framework>/..., hashes it, and publishes it alongside a
// regenerated RELEASES manifest — either to a local directory or to a GCS
// bucket. It is the write-side counterpart to cmd/shimmer's read-only
// pipeline: nothing under the shimmer package imports this command.
package main

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeffora/shimmer/delta"
	"github.com/jeffora/shimmer/release"
)

func main() {
	config := parseConfig()
	if config.SourceDirectory == "" || config.PackageID == "" || config.Version == "" {
		fmt.Fprintln(os.Stderr, "usage: shimmer-publish -source DIR -package-id ID -version VERSION -remote ADDR [-delta -base-version VERSION] [-remote-bucket BUCKET]")
		os.Exit(1)
	}

	content, filename, err := buildArtifact(config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	entry, err := hashEntry(content, filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := publish(ctx, config, entry, content); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("published %s (%s, %d bytes)\n", entry.Filename, entry.SHA1, entry.Filesize)
}

// buildArtifact produces the bytes that will be uploaded under entry.Filename:
// a zip of SourceDirectory for a full release, or a unified-diff delta
// package against BaseVersion's already-published full release.
func buildArtifact(config Config) (content []byte, filename string, err error) {
	zipped, err := zipDirectory(config.SourceDirectory)
	if err != nil {
		return nil, "", err
	}

	if !config.Delta {
		filename = fmt.Sprintf("%s-%s.nupkg", config.PackageID, config.Version)
		return zipped, filename, nil
	}

	if config.BaseVersion == "" {
		return nil, "", fmt.Errorf("-delta requires -base-version")
	}
	baseFilename := fmt.Sprintf("%s-%s.nupkg", config.PackageID, config.BaseVersion)
	base, err := readExistingArtifact(config, baseFilename)
	if err != nil {
		return nil, "", fmt.Errorf("reading base package %s: %w", baseFilename, err)
	}

	filename = fmt.Sprintf("%s-%s-delta.nupkg", config.PackageID, config.Version)
	patch, err := delta.BuildTextDelta(string(base), string(zipped), baseFilename, filename)
	if err != nil {
		return nil, "", err
	}
	return []byte(patch), filename, nil
}

// zipDirectory walks root and archives every regular file into a zip with
// paths relative to root, matching the lib/<framework>/... layout
// installer.extractFrameworkFiles expects inside a full release.
func zipDirectory(root string) ([]byte, error) {
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)

	err := filepath.Walk(root, func(path string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entryWriter, err := writer.Create(filepath.ToSlash(relative))
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = entryWriter.Write(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// readExistingArtifact fetches a previously published package's content, so
// a delta build can diff against it. Only the local-directory remote is
// supported here: a GCS-backed publish pipeline is expected to stage its
// base packages locally before building a delta, the same way satisfy's own
// cmd/upload never round-trips through the bucket it is writing to.
func readExistingArtifact(config Config, filename string) ([]byte, error) {
	if config.RemoteBucket != "" {
		return nil, fmt.Errorf("delta builds require a local -remote directory holding %s; GCS bucket round-trips are not supported", filename)
	}
	return os.ReadFile(filepath.Join(config.RemoteAddress, filename))
}

func hashEntry(content []byte, filename string) (release.Entry, error) {
	hasher := sha1.New()
	hasher.Write(content)
	return release.NewEntry(hex.EncodeToString(hasher.Sum(nil)), filename, int64(len(content)))
}

// publish uploads content under entry.Filename and folds entry into the
// remote's RELEASES manifest, rewriting it in place.
func publish(ctx context.Context, config Config, entry release.Entry, content []byte) error {
	manifest, err := fetchManifest(config)
	if err != nil {
		return err
	}
	manifest.Entries = append(dropExisting(manifest.Entries, entry.Filename), entry)
	manifest.Sort()

	var manifestBuffer bytes.Buffer
	if _, err := manifest.WriteTo(&manifestBuffer); err != nil {
		return err
	}

	if config.RemoteBucket != "" {
		uploader := newGoogleCloudStorageUploader(&http.Client{}, config.GoogleCredentials, config.RemoteBucket)
		upload := func(name string, body []byte, contentType string) error {
			for attempt := 0; ; attempt++ {
				err := uploader.Upload(ctx, name, bytes.NewReader(body), int64(len(body)), contentType)
				if err == nil || attempt >= config.MaxRetry {
					return err
				}
			}
		}
		if err := upload(entry.Filename, content, "application/zip"); err != nil {
			return err
		}
		return upload("RELEASES", manifestBuffer.Bytes(), "text/plain")
	}

	if err := os.MkdirAll(config.RemoteAddress, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(config.RemoteAddress, entry.Filename), content, 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(config.RemoteAddress, "RELEASES"), manifestBuffer.Bytes(), 0644)
}

func fetchManifest(config Config) (release.Manifest, error) {
	if config.RemoteBucket != "" {
		// A fresh bucket has no RELEASES yet; publishing the first package
		// to one always starts from an empty manifest. Appending to an
		// already-populated bucket requires staging its RELEASES locally
		// first, same as readExistingArtifact's base-package requirement.
		return release.Manifest{}, nil
	}
	raw, err := os.ReadFile(filepath.Join(config.RemoteAddress, "RELEASES"))
	if os.IsNotExist(err) {
		return release.Manifest{}, nil
	}
	if err != nil {
		return release.Manifest{}, err
	}
	return release.ParseManifest(bytes.NewReader(raw))
}

func dropExisting(entries []release.Entry, filename string) []release.Entry {
	kept := entries[:0:0]
	for _, e := range entries {
		if !strings.EqualFold(e.Filename, filename) {
			kept = append(kept, e)
		}
	}
	return kept
}
