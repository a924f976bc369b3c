package contracts

import (
	"context"
	"io"
)

// ProgressSink receives monotonically increasing percentages in [0, 100] for
// one pipeline call. Implementations must be safe to call from any
// goroutine: the fetcher's FetchAll invokes it from worker goroutines, per
// spec.md's push-based, thread-safe sink requirement.
type ProgressSink interface {
	OnProgress(percent int)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(percent int)

func (this ProgressFunc) OnProgress(percent int) { this(percent) }

// NoopProgress discards progress reports; useful for callers that don't care.
var NoopProgress ProgressSink = ProgressFunc(func(int) {})

// Downloader fetches the body at a remote address. Implemented by the fetch
// package's HTTP and local-directory downloaders.
type Downloader interface {
	Download(ctx context.Context, remoteAddress string) (io.ReadCloser, error)
}

// Uploader is the publish-side counterpart, used only by cmd/shimmer-publish.
type Uploader interface {
	Upload(ctx context.Context, remoteAddress string, body io.ReadSeeker, size int64, contentType string) error
}

// RemoteStorage composes both directions, mirroring
// bitbucket.org/smartystreets/satisfy's contracts.RemoteStorage.
type RemoteStorage interface {
	Uploader
	Downloader
}
