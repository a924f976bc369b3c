// Package installer drives the per-install state machine from spec.md §4.8:
// PREPARE, CLEAN_DEAD, COMPOSE_OR_PICK, EXTRACT, POST_INSTALL, and
// REWRITE_MANIFEST. Extraction uses github.com/mholt/archiver's zip reader;
// POST_INSTALL hosts the AppSetup capability in the cmd/shimmer-host
// subprocess, in the manner of IMQS-updater/updater/shell_windows.go's
// exec.Command-plus-captured-output pattern.
package installer
