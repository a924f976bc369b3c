package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/smartystreets/clock"
	"github.com/smartystreets/logging"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/release"
	"github.com/jeffora/shimmer/store"
)

const manifestFilename = "RELEASES"

// maxConcurrentDownloads bounds the fan-out FetchAll uses, the same limit
// spec.md §4.5 assigns to local directory copies and which this module
// applies uniformly to HTTP fetches as well.
const maxConcurrentDownloads = 4

// Fetcher retrieves a RELEASES manifest and individual release artifacts
// from either an http(s) origin or a local directory, selected per-call by
// Classify.
type Fetcher struct {
	http     contracts.Downloader
	localDir contracts.Downloader
	logger   *logging.Logger
}

// NewFetcher builds a Fetcher whose downloads retry up to maxRetry times
// with a fixed backoff, slept through a *clock.Sleeper.
func NewFetcher(client *http.Client, maxRetry int) *Fetcher {
	var sleeper *clock.Sleeper // nil sleeps for real; tests use clock.StayAwake()
	logger := logging.Capture()
	logger.SetOutput(os.Stderr)
	return &Fetcher{
		http:     newRetryDownloader(newHTTPDownloader(client), maxRetry, sleeper, logger),
		localDir: newRetryDownloader(newLocalDirDownloader(), maxRetry, sleeper, logger),
		logger:   logger,
	}
}

func (this *Fetcher) downloaderFor(baseAddress string) contracts.Downloader {
	if Classify(baseAddress) == KindHTTP {
		return this.http
	}
	return this.localDir
}

func composeAddress(baseAddress, filename string) string {
	if Classify(baseAddress) == KindHTTP {
		return strings.TrimSuffix(baseAddress, "/") + "/" + filename
	}
	return filepath.Join(baseAddress, filename)
}

// FetchManifest downloads and parses the RELEASES manifest at baseAddress.
func (this *Fetcher) FetchManifest(ctx context.Context, baseAddress string) (release.Manifest, error) {
	address := composeAddress(baseAddress, manifestFilename)
	body, err := this.downloaderFor(baseAddress).Download(ctx, address)
	if err != nil {
		return release.Manifest{}, err
	}
	defer func() { _ = body.Close() }()

	manifest, err := release.ParseManifest(body)
	if err != nil {
		return release.Manifest{}, fmt.Errorf("%w: %s", contracts.ErrCorruptRemoteManifest, err)
	}
	return manifest, nil
}

// FetchArtifact downloads entry's package from baseAddress into destination,
// reporting progress as bytes arrive.
func (this *Fetcher) FetchArtifact(ctx context.Context, baseAddress string, entry release.Entry, destination *store.Store, progress contracts.ProgressSink) error {
	if progress == nil {
		progress = contracts.NoopProgress
	}
	address := composeAddress(baseAddress, entry.Filename)
	body, err := this.downloaderFor(baseAddress).Download(ctx, address)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	return destination.Put(entry, newProgressReader(body, entry.Filesize, progress))
}

// FetchAll downloads every entry concurrently, bounded to
// maxConcurrentDownloads in flight at once, in the shape of
// cmd/satisfy/download.go's DownloadApp: one goroutine per item, a
// WaitGroup to know when the batch is done, and a result channel collecting
// failures without blocking faster downloads.
//
// progress reports the fraction of entries that have finished downloading,
// not any single artifact's byte-level progress: forwarding each concurrent
// artifact's own 0-100 reader progress to the same sink would make the
// reported percentage jump up and down as unrelated downloads raced each
// other. A terminal 100 is always reported, even when entries fails.
func (this *Fetcher) FetchAll(ctx context.Context, baseAddress string, entries []release.Entry, destination *store.Store, progress contracts.ProgressSink) error {
	if progress == nil {
		progress = contracts.NoopProgress
	}
	defer progress.OnProgress(100)

	if len(entries) == 0 {
		return nil
	}

	semaphore := make(chan struct{}, maxConcurrentDownloads)
	waiter := new(sync.WaitGroup)
	waiter.Add(len(entries))
	results := make(chan error, len(entries))

	var progressMu sync.Mutex
	completed, lastReported := 0, -1
	reportCompletion := func() {
		progressMu.Lock()
		defer progressMu.Unlock()
		completed++
		if pct := completed * 100 / len(entries); pct > lastReported {
			lastReported = pct
			progress.OnProgress(pct)
		}
	}

	for _, entry := range entries {
		go func(entry release.Entry) {
			defer waiter.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()
			defer reportCompletion()
			if destination.Exists(entry) {
				return
			}
			if err := this.FetchArtifact(ctx, baseAddress, entry, destination, nil); err != nil {
				results <- fmt.Errorf("fetching %s: %w", entry.Filename, err)
			}
		}(entry)
	}

	go func() {
		waiter.Wait()
		close(results)
	}()

	var failures []error
	for err := range results {
		this.logger.Println("[WARN]", err)
		failures = append(failures, err)
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d artifacts failed to fetch: %w", len(failures), len(entries), failures[0])
	}
	return nil
}

type progressReader struct {
	io.Reader
	total   int64
	read    int64
	lastPct int
	sink    contracts.ProgressSink
}

func newProgressReader(source io.Reader, total int64, sink contracts.ProgressSink) *progressReader {
	return &progressReader{Reader: source, total: total, sink: sink}
}

func (this *progressReader) Read(buffer []byte) (int, error) {
	count, err := this.Reader.Read(buffer)
	this.read += int64(count)
	if this.total > 0 {
		pct := int(this.read * 100 / this.total)
		if pct != this.lastPct {
			this.lastPct = pct
			this.sink.OnProgress(pct)
		}
	}
	return count, err
}
