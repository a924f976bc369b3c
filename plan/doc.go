// Package plan decides what a locally-installed release should become,
// given the local and remote RELEASES manifests. It is pure decision logic:
// no I/O, no filesystem, no network — it consumes two release.Manifest
// values and produces a *contracts.UpdateInfo or nil when no update is
// warranted. Grounded in bitbucket.org/smartystreets/satisfy's
// core/dependency_resolver.go, which draws the same kind of
// compare-then-decide shape over a (local, remote) pair.
package plan
