package main

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"net/http"

	"github.com/smarty/gcs"
)

// googleCloudStorageUploader adapts remote/gcs.go's GoogleCloudStorageClient
// to contracts.Uploader's narrower (ctx, address, body, size, contentType)
// shape, computing the Content-MD5 header gcs.PutWithContentMD5 requires
// from the body itself rather than asking every caller to supply it.
type googleCloudStorageUploader struct {
	client      *http.Client
	credentials gcs.Credentials
	bucket      string
}

func newGoogleCloudStorageUploader(client *http.Client, credentials gcs.Credentials, bucket string) *googleCloudStorageUploader {
	return &googleCloudStorageUploader{client: client, credentials: credentials, bucket: bucket}
}

func (this *googleCloudStorageUploader) Upload(ctx context.Context, remoteAddress string, body io.ReadSeeker, size int64, contentType string) error {
	checksum, err := md5Base64(body)
	if err != nil {
		return err
	}

	request, err := gcs.NewRequest("PUT",
		gcs.WithCredentials(this.credentials),
		gcs.WithBucket(this.bucket),
		gcs.WithResource(remoteAddress),
		gcs.PutWithContent(body),
		gcs.PutWithContentLength(size),
		gcs.PutWithContentMD5(checksum),
		gcs.PutWithContentType(contentType),
	)
	if err != nil {
		return err
	}
	request = request.WithContext(ctx)

	response, err := this.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("gcs upload of %s: non 200 status code: %s", remoteAddress, response.Status)
	}
	return nil
}

func md5Base64(body io.ReadSeeker) ([]byte, error) {
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	hasher := md5.New()
	if _, err := io.Copy(hasher, body); err != nil {
		return nil, err
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return hasher.Sum(nil), nil
}
