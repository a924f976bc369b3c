// Package store manages the local cache of downloaded release artifacts
// under a packages directory: writing them as they stream in, verifying
// their SHA1 and size against a release.Entry, and pruning artifacts not
// named by a caller-supplied manifest (the installer passes the rewritten
// local manifest). Its shape follows
// bitbucket.org/smartystreets/satisfy's core/hash_reader.go and
// core/integrity_content.go, adapted from manifest-described archive
// contents to whole-package release artifacts.
package store
