// Package delta composes a chain of delta release packages on top of a
// currently installed full package into a single new full package, per
// spec.md §4.7. The actual binary patch algorithm is a black box behind
// contracts.DeltaApplier; Composer only ever calls that seam. The package
// also ships two sample appliers: a pass-through copy (NewIdentityApplier)
// and a unified-diff text patcher (NewTextPatchApplier). Grounded in
// bitbucket.org/smartystreets/satisfy's core/dependency_resolver.go for the
// precondition-check-then-act shape, and in core/hash_reader.go for the
// re-hash-after-write step each composed artifact needs.
package delta
