// Package fetch retrieves a RELEASES manifest and release artifacts from a
// remote address, which spec.md §4.5 allows to be either an http(s) URL or a
// local directory path. Its retry wrapper follows
// bitbucket.org/smartystreets/satisfy's remote/retry.go, and its
// bounded-concurrency bulk fetch follows cmd/satisfy/download.go's
// one-goroutine-per-item, WaitGroup-plus-result-channel shape.
package fetch
