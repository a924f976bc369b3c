package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/jeffora/shimmer/contracts"
)

// localDirDownloader serves a remote address that names a local directory
// rather than a URL; spec.md §4.5 allows a bare filesystem path as a remote
// source for on-disk network shares and local testing.
type localDirDownloader struct{}

func newLocalDirDownloader() *localDirDownloader {
	return &localDirDownloader{}
}

func (this *localDirDownloader) Download(ctx context.Context, remoteAddress string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Clean(remoteAddress))
	if err != nil {
		return nil, &contracts.TransportFailure{URL: remoteAddress, Cause: err}
	}
	return file, nil
}
