package fs

import (
	"bytes"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jeffora/shimmer/contracts"
)

// InMemoryFileSystem is a contracts.FileSystem implementation backed by a
// map, directly descended from bitbucket.org/smartystreets/satisfy's
// fs/memory.go, generalized to the full interface this module's packages
// need (Stat, Listing, MkdirAll, RemoveAll) rather than just Open/Create/
// ReadFile/WriteFile.
type InMemoryFileSystem struct {
	files map[string]*memoryFile
}

type memoryFile struct {
	*bytes.Buffer
	mod time.Time
}

func NewInMemoryFileSystem() *InMemoryFileSystem {
	return &InMemoryFileSystem{files: make(map[string]*memoryFile)}
}

func clean(p string) string {
	return path.Clean("/" + filepathToSlash(p))
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func (this *InMemoryFileSystem) Listing(dir string) ([]contracts.FileInfo, error) {
	prefix := clean(dir)
	if prefix != "/" {
		prefix += "/"
	}
	var out []contracts.FileInfo
	for name, file := range this.files {
		if prefix != "/" && !strings.HasPrefix(name, prefix) {
			continue
		}
		rel := strings.TrimPrefix(name, prefix)
		out = append(out, memoryFileInfo{path: rel, size: int64(file.Len()), mod: file.mod})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out, nil
}

func (this *InMemoryFileSystem) Open(p string) (io.ReadCloser, error) {
	file, ok := this.files[clean(p)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(file.Bytes())), nil
}

func (this *InMemoryFileSystem) Create(p string) (io.WriteCloser, error) {
	return &memoryWriter{fs: this, path: clean(p)}, nil
}

func (this *InMemoryFileSystem) ReadFile(p string) ([]byte, error) {
	file, ok := this.files[clean(p)]
	if !ok {
		return nil, os.ErrNotExist
	}
	return file.Bytes(), nil
}

func (this *InMemoryFileSystem) WriteFile(p string, content []byte) error {
	this.files[clean(p)] = &memoryFile{Buffer: bytes.NewBuffer(content), mod: time.Now()}
	return nil
}

func (this *InMemoryFileSystem) Delete(p string) error {
	key := clean(p)
	if _, ok := this.files[key]; ok {
		delete(this.files, key)
		return nil
	}
	prefix := key + "/"
	deletedAny := false
	for name := range this.files {
		if strings.HasPrefix(name, prefix) {
			delete(this.files, name)
			deletedAny = true
		}
	}
	if !deletedAny {
		return os.ErrNotExist
	}
	return nil
}

func (this *InMemoryFileSystem) Stat(p string) (contracts.FileInfo, error) {
	key := clean(p)
	if file, ok := this.files[key]; ok {
		return memoryFileInfo{path: key, size: int64(file.Len()), mod: file.mod}, nil
	}
	prefix := key + "/"
	for name := range this.files {
		if strings.HasPrefix(name, prefix) {
			return memoryFileInfo{path: key, dir: true}, nil
		}
	}
	return nil, os.ErrNotExist
}

func (this *InMemoryFileSystem) MkdirAll(p string) error {
	// Directories are implicit in this model: a directory "exists" once a
	// file is written under it. Nothing to record up front.
	return nil
}

func (this *InMemoryFileSystem) RemoveAll(p string) error {
	return this.Delete(p)
}

type memoryWriter struct {
	fs   *InMemoryFileSystem
	path string
	buf  bytes.Buffer
}

func (this *memoryWriter) Write(p []byte) (int, error) { return this.buf.Write(p) }
func (this *memoryWriter) Close() error {
	this.fs.files[this.path] = &memoryFile{Buffer: bytes.NewBuffer(this.buf.Bytes()), mod: time.Now()}
	return nil
}

type memoryFileInfo struct {
	path string
	size int64
	mod  time.Time
	dir  bool
}

func (this memoryFileInfo) Path() string       { return this.path }
func (this memoryFileInfo) Size() int64        { return this.size }
func (this memoryFileInfo) ModTime() time.Time { return this.mod }
func (this memoryFileInfo) Mode() os.FileMode  { return 0644 }
func (this memoryFileInfo) IsDir() bool        { return this.dir }
