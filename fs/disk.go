package fs

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jeffora/shimmer/contracts"
)

// DiskFileSystem implements contracts.FileSystem directly against the local
// disk, in the manner of bitbucket.org/smartystreets/satisfy's
// shell/disk.go: thin wrappers, no caching, errors returned rather than
// panicked (this module's callers are expected to handle them, unlike the
// teacher's log.Panic-on-every-error style, since spec.md's error taxonomy
// requires typed, recoverable failures rather than a crash).
type DiskFileSystem struct{}

func NewDiskFileSystem() *DiskFileSystem { return &DiskFileSystem{} }

func (this *DiskFileSystem) Listing(dir string) ([]contracts.FileInfo, error) {
	var out []contracts.FileInfo
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, diskFileInfo{path: filepath.ToSlash(rel), size: info.Size(), mod: info.ModTime(), mode: info.Mode()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (this *DiskFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (this *DiskFileSystem) Create(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func (this *DiskFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (this *DiskFileSystem) WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

func (this *DiskFileSystem) Delete(path string) error {
	return os.RemoveAll(path)
}

func (this *DiskFileSystem) Stat(path string) (contracts.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return diskFileInfo{path: path, size: info.Size(), mod: info.ModTime(), mode: info.Mode(), dir: info.IsDir()}, nil
}

func (this *DiskFileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (this *DiskFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

type diskFileInfo struct {
	path string
	size int64
	mod  time.Time
	mode os.FileMode
	dir  bool
}

func (this diskFileInfo) Path() string       { return this.path }
func (this diskFileInfo) Size() int64        { return this.size }
func (this diskFileInfo) ModTime() time.Time { return this.mod }
func (this diskFileInfo) Mode() os.FileMode  { return this.mode }
func (this diskFileInfo) IsDir() bool        { return this.dir }
