package installer

import (
	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/release"
)

// Uninstall implements the "full uninstall" pipeline call spec.md §4.9 names
// alongside checkForUpdate/downloadReleases/applyReleases: it notifies the
// currently installed version's AppSetup that it is uninstalling and then
// that the application itself is uninstalling, before the caller removes the
// installation root.
func (this *Installer) Uninstall(root string, current *release.Entry) error {
	if current == nil {
		return nil
	}
	appDir := root + "/app-" + current.Version.String()
	descriptor, loadFailure := discoverSetup(this.fileSystem, appDir)
	if loadFailure != nil {
		this.logger.Printf("[WARN] %s", loadFailure.Error())
	}
	if _, err := invokeHost(this.hostExecutable, descriptor, contracts.PhaseVersionUninstalling, current.Version.String()); err != nil {
		this.logger.Printf("[WARN] OnVersionUninstalling hook failed during full uninstall: %s", err)
	}
	if _, err := invokeHost(this.hostExecutable, descriptor, contracts.PhaseAppUninstall, current.Version.String()); err != nil {
		return err
	}
	return this.fileSystem.Delete(appDir)
}
