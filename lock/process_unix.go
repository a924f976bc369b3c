//go:build !windows

package lock

import "syscall"

// processAlive reports whether pid names a running process, by sending the
// null signal (no-op on Unix, but returns ESRCH when no such process exists).
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
