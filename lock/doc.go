// Package lock implements the machine-wide install lock (spec.md §4.4): a
// single process may hold the lock for a given installation root at a time,
// contended acquisition polls with backoff up to a fixed timeout, and a lock
// abandoned by a dead process is reclaimed rather than waited out forever.
// Polling uses an injected *clock.Sleeper, the same seam
// bitbucket.org/smartystreets/satisfy's remote/retry.go uses to make its
// retry backoff deterministic under test.
package lock
