package delta

import "io"

// identityApplier treats the delta package as already being the full
// package it should produce, ignoring base entirely: a minimal
// contracts.DeltaApplier used where the wire format doesn't need an actual
// binary patch (e.g. every release is republished in full under a
// "-delta" name), and in tests that exercise Composer without requiring a
// real patch format.
type identityApplier struct {
	fileSystem interface {
		Open(path string) (io.ReadCloser, error)
		Create(path string) (io.WriteCloser, error)
	}
}

// NewIdentityApplier builds a contracts.DeltaApplier that copies deltaPath
// straight to outPath.
func NewIdentityApplier(fileSystem interface {
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
}) *identityApplier {
	return &identityApplier{fileSystem: fileSystem}
}

func (this *identityApplier) Apply(basePath, deltaPath, outPath string) error {
	source, err := this.fileSystem.Open(deltaPath)
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()

	destination, err := this.fileSystem.Create(outPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(destination, source); err != nil {
		_ = destination.Close()
		return err
	}
	return destination.Close()
}
