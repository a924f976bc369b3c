package installer

import (
	"archive/zip"
	"io"
	"sort"

	"github.com/mholt/archiver"

	"github.com/jeffora/shimmer/contracts"
)

type extractedFile struct {
	zipPath      string
	relativePath string
	content      []byte
}

// extractFrameworkFiles reads every entry in the zip archive at packagePath
// whose path matches the configured framework profile (frameworkProfileMatch),
// in ascending zip-path order so a higher-profile variant encountered later
// overwrites whatever a lower-profile variant already wrote — spec.md §4.8
// EXTRACT's ordering rule. Matching entries are written under destDir,
// stripping the "lib/<profile>/" prefix.
func extractFrameworkFiles(fileSystem contracts.FileSystem, packagePath, destDir, targetProfile string) error {
	zipReader, err := fileSystem.Open(packagePath)
	if err != nil {
		return err
	}
	defer func() { _ = zipReader.Close() }()

	tmp, err := spillToTemp(zipReader)
	if err != nil {
		return err
	}
	defer func() { _ = tmp.cleanup() }()

	var matched []extractedFile
	zipArchiver := archiver.NewZip()
	walkErr := zipArchiver.Walk(tmp.path, func(f archiver.File) error {
		defer func() { _ = f.Close() }()
		if f.IsDir() {
			return nil
		}
		zipPath := archiverEntryName(f)
		include, relative := frameworkProfileMatch(zipPath, targetProfile)
		if !include {
			return nil
		}
		content, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		matched = append(matched, extractedFile{zipPath: zipPath, relativePath: relative, content: content})
		return nil
	})
	if walkErr != nil {
		return walkErr
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].zipPath < matched[j].zipPath })

	for _, file := range matched {
		if err := fileSystem.WriteFile(destDir+"/"+file.relativePath, file.content); err != nil {
			return err
		}
	}
	return nil
}

func archiverEntryName(f archiver.File) string {
	if header, ok := f.Header.(zip.FileHeader); ok {
		return header.Name
	}
	return f.Name()
}
