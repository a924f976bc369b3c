// Package fs provides the two contracts.FileSystem implementations this
// module uses: DiskFileSystem, a thin wrapper over os/io, and
// InMemoryFileSystem, used by every other package's tests instead of a real
// disk — the same split bitbucket.org/smartystreets/satisfy draws between
// shell/disk.go and fs/memory.go.
package fs
