package store

import (
	"hash"
	"io"
)

// hashWriter tees every byte written through it into a running hash,
// mirroring the Read-side pairing bitbucket.org/smartystreets/satisfy's
// core/hash_reader.go draws between an io.Reader and a hash.Hash, just
// applied to the write side since artifacts arrive as a download stream.
type hashWriter struct {
	io.Writer
	hash.Hash
}

func newHashWriter(target io.Writer, hasher hash.Hash) *hashWriter {
	return &hashWriter{Writer: target, Hash: hasher}
}

func (this *hashWriter) Write(buffer []byte) (int, error) {
	count, err := this.Writer.Write(buffer)
	_, _ = this.Hash.Write(buffer[:count])
	return count, err
}
