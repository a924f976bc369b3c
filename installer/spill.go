package installer

import (
	"io"
	"os"
)

// spilledFile is a real on-disk copy of an artifact that only otherwise
// exists behind a contracts.FileSystem (possibly in-memory, in tests).
// github.com/mholt/archiver reads zip archives by path, not by io.Reader, so
// extraction spills the package to the OS temp directory first.
type spilledFile struct {
	path string
}

func spillToTemp(source io.Reader) (*spilledFile, error) {
	file, err := os.CreateTemp("", "shimmer-package-*.zip")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(file, source); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return nil, err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return nil, err
	}
	return &spilledFile{path: file.Name()}, nil
}

func (this *spilledFile) cleanup() error {
	return os.Remove(this.path)
}
