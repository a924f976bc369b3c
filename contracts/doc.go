// Package contracts holds the narrow interfaces and plain data types that the
// rest of this module's packages are written against, the same separation
// bitbucket.org/smartystreets/satisfy draws between its contracts package and
// its core/shell packages: nothing in here talks to a disk, a socket, or a
// subprocess. Implementations live in fs, fetch, installer and lock.
package contracts
