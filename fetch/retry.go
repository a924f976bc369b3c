package fetch

import (
	"context"
	"io"
	"time"

	"github.com/smartystreets/clock"
	"github.com/smartystreets/logging"

	"github.com/jeffora/shimmer/contracts"
)

const retryBackoff = 3 * time.Second

// retryDownloader wraps a contracts.Downloader with fixed-backoff retries,
// the same policy bitbucket.org/smartystreets/satisfy's remote/retry.go
// applies to uploads, here applied to both manifest and artifact downloads.
type retryDownloader struct {
	inner    contracts.Downloader
	maxRetry int
	sleeper  *clock.Sleeper
	logger   *logging.Logger
}

func newRetryDownloader(inner contracts.Downloader, maxRetry int, sleeper *clock.Sleeper, logger *logging.Logger) *retryDownloader {
	return &retryDownloader{inner: inner, maxRetry: maxRetry, sleeper: sleeper, logger: logger}
}

func (this *retryDownloader) Download(ctx context.Context, remoteAddress string) (body io.ReadCloser, err error) {
	for attempt := 0; attempt <= this.maxRetry; attempt++ {
		body, err = this.inner.Download(ctx, remoteAddress)
		if err == nil {
			return body, nil
		}
		if attempt < this.maxRetry {
			this.logger.Printf("[WARN] fetch of %q failed, retry imminent.", remoteAddress)
			this.sleeper.Sleep(retryBackoff)
		}
	}
	return nil, err
}
