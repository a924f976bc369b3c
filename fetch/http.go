package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jeffora/shimmer/contracts"
)

// httpDownloader fetches a remote address over http(s), the same shape as
// bitbucket.org/smartystreets/satisfy's shell's http client, narrowed to the
// single Download direction this module needs (it never uploads).
type httpDownloader struct {
	client *http.Client
}

func newHTTPDownloader(client *http.Client) *httpDownloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpDownloader{client: client}
}

func (this *httpDownloader) Download(ctx context.Context, remoteAddress string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteAddress, nil)
	if err != nil {
		return nil, &contracts.TransportFailure{URL: remoteAddress, Cause: err}
	}
	response, err := this.client.Do(request)
	if err != nil {
		return nil, &contracts.TransportFailure{URL: remoteAddress, Cause: err}
	}
	if response.StatusCode != http.StatusOK {
		_ = response.Body.Close()
		return nil, &contracts.TransportFailure{URL: remoteAddress, Cause: fmt.Errorf("unexpected status: %s", response.Status)}
	}
	return response.Body, nil
}
