//go:build !windows

package installer

// rewritePinnedShortcuts is a no-op outside Windows; pinned taskbar shortcuts
// are a Windows shell concept with no equivalent surface on other platforms.
func rewritePinnedShortcuts(oldAppDir, newAppDir string, tombstoned map[string]bool) error {
	return nil
}
