// Package release implements the RELEASES manifest grammar and the version
// and filename rules that every other package in this module builds on
// (spec.md §4.1 and §4.2). It has no dependency on contracts or any
// filesystem abstraction: it parses and serializes text, and classifies
// filenames, nothing else.
package release
