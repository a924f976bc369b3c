//go:build windows

package installer

import (
	"fmt"
	"os/exec"
	"strings"
)

// rewritePinnedShortcuts implements spec.md §4.8's pinned-shortcut fix: any
// shortcut whose target pointed into oldAppDir is repointed into newAppDir,
// preserving the relative subpath, or unpinned if the rewritten target no
// longer exists. Like lock/process_windows.go, this shells out rather than
// linking COM interop into the process — here via WScript.Shell through
// PowerShell, in the manner of IMQS-updater's exec.Command usage.
func rewritePinnedShortcuts(oldAppDir, newAppDir string, tombstoned map[string]bool) error {
	script := fmt.Sprintf(`
$shell = New-Object -ComObject WScript.Shell
$taskbar = [Environment]::GetFolderPath('ApplicationData') + '\Microsoft\Internet Explorer\Quick Launch\User Pinned\TaskBar'
Get-ChildItem -Path $taskbar -Filter *.lnk -ErrorAction SilentlyContinue | ForEach-Object {
  $link = $shell.CreateShortcut($_.FullName)
  if ($link.TargetPath -like '%s*') {
    $relative = $link.TargetPath.Substring(%d)
    $newTarget = '%s' + $relative
    if (Test-Path $newTarget) {
      $link.TargetPath = $newTarget
      $link.Save()
    } else {
      Remove-Item $_.FullName -Force
    }
  }
}
`, escapePowerShellString(oldAppDir), len(oldAppDir), escapePowerShellString(newAppDir))

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	return cmd.Run()
}

func escapePowerShellString(value string) string {
	return strings.ReplaceAll(value, "'", "''")
}
