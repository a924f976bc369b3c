package installer

import (
	"os"
	"strings"

	"github.com/smartystreets/logging"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/delta"
	"github.com/jeffora/shimmer/release"
	"github.com/jeffora/shimmer/store"
)

// Installer drives the PREPARE -> CLEAN_DEAD -> COMPOSE_OR_PICK -> EXTRACT ->
// POST_INSTALL -> REWRITE_MANIFEST -> DONE state machine (spec.md §4.8)
// against one installation root.
type Installer struct {
	fileSystem     contracts.FileSystem
	store          *store.Store
	composer       *delta.Composer
	logger         *logging.Logger
	hostExecutable string
	targetProfile  string
}

func NewInstaller(fileSystem contracts.FileSystem, artifactStore *store.Store, composer *delta.Composer, hostExecutable, targetProfile string) *Installer {
	logger := logging.Capture()
	logger.SetOutput(os.Stderr)
	return &Installer{
		fileSystem:     fileSystem,
		store:          artifactStore,
		composer:       composer,
		logger:         logger,
		hostExecutable: hostExecutable,
		targetProfile:  targetProfile,
	}
}

// Install runs the full state machine for one UpdateInfo and returns the
// launch paths for the newly extracted version: the target of every
// non-tombstoned shortcut the hosted AppSetup reported, plus the discovered
// setup's target when it asks to launch on setup, so the caller can offer to
// relaunch the application.
func (this *Installer) Install(root string, info contracts.UpdateInfo, progress contracts.ProgressSink) ([]string, error) {
	defer progress.OnProgress(100)

	this.logger.Println("[INFO] " + Prepare.String())
	if err := this.fileSystem.MkdirAll(root + "/packages"); err != nil {
		return nil, err
	}
	progress.OnProgress(10)

	this.logger.Println("[INFO] " + CleanDead.String())
	this.cleanDeadVersions(root, info.CurrentlyInstalledVersion)
	progress.OnProgress(25)

	this.logger.Println("[INFO] " + ComposeOrPick.String())
	composed, err := this.composer.Compose(info.CurrentlyInstalledVersion, info.ReleasesToApply)
	if err != nil {
		return nil, err
	}
	progress.OnProgress(40)

	this.logger.Println("[INFO] " + Extract.String())
	appDir := root + "/app-" + composed.Version.String()
	if err := this.fileSystem.Delete(appDir); err != nil {
		this.logger.Printf("[WARN] could not clear existing %s before extraction: %s", appDir, err)
	}
	if err := extractFrameworkFiles(this.fileSystem, this.store.Path(composed), appDir, this.targetProfile); err != nil {
		return nil, err
	}
	progress.OnProgress(70)

	this.logger.Println("[INFO] " + PostInstall.String())
	launchPaths, err := this.runPostInstall(root, appDir, composed.Version.String(), info)
	if err != nil {
		return nil, err
	}
	progress.OnProgress(90)

	this.logger.Println("[INFO] " + RewriteManifestState.String())
	if _, err := RewriteManifest(this.fileSystem, root); err != nil {
		return nil, err
	}

	this.logger.Println("[INFO] " + Done.String())
	return launchPaths, nil
}

// cleanDeadVersions implements CLEAN_DEAD: every app-* directory that isn't
// the currently installed version is a candidate for removal. Deletion
// failures (a locked executable still running) are logged and swallowed —
// this step must never fail the pipeline.
func (this *Installer) cleanDeadVersions(root string, current *release.Entry) {
	listing, err := this.fileSystem.Listing(root)
	if err != nil {
		this.logger.Printf("[WARN] could not list %s during CLEAN_DEAD: %s", root, err)
		return
	}
	currentDir := ""
	if current != nil {
		currentDir = "app-" + current.Version.String()
	}
	seen := map[string]bool{}
	for _, file := range listing {
		top := strings.SplitN(file.Path(), "/", 2)[0]
		if !strings.HasPrefix(top, "app-") || seen[top] || top == currentDir {
			continue
		}
		seen[top] = true
		if err := this.fileSystem.Delete(root + "/" + top); err != nil {
			this.logger.Printf("[WARN] %s could not be deleted, left for the next CLEAN_DEAD pass: %s", top, err)
		}
	}
}

// runPostInstall hosts the AppSetup lifecycle calls for POST_INSTALL: the
// outgoing version (if any) is notified it is uninstalling, then the newly
// extracted version is installed (on bootstrap) and notified it is now
// current. Shortcut requests from either call are applied, and tombstoned
// shortcuts (ones the user removed by hand) are never recreated.
func (this *Installer) runPostInstall(root, appDir, newVersion string, info contracts.UpdateInfo) ([]string, error) {
	descriptor, loadFailure := discoverSetup(this.fileSystem, appDir)
	if loadFailure != nil {
		this.logger.Printf("[WARN] %s", loadFailure.Error())
	}

	tombstoned := map[string]bool{}

	if info.CurrentlyInstalledVersion != nil {
		oldAppDir := root + "/app-" + info.CurrentlyInstalledVersion.Version.String()
		oldDescriptor, oldLoadFailure := discoverSetup(this.fileSystem, oldAppDir)
		if oldLoadFailure != nil {
			this.logger.Printf("[WARN] %s", oldLoadFailure.Error())
		}
		call, err := invokeHost(this.hostExecutable, oldDescriptor, contracts.PhaseVersionUninstalling, info.CurrentlyInstalledVersion.Version.String())
		if err != nil {
			this.logger.Printf("[WARN] OnVersionUninstalling hook failed: %s", err)
		} else {
			for _, tombstone := range call.Tombstones {
				tombstoned[tombstone] = true
			}
		}
		if err := rewritePinnedShortcuts(oldAppDir, appDir, tombstoned); err != nil {
			this.logger.Printf("[WARN] pinned shortcut rewrite failed: %s", err)
		}
	}

	var launchPaths []string
	if info.IsBootstrapping {
		call, err := invokeHost(this.hostExecutable, descriptor, contracts.PhaseAppInstall, newVersion)
		if err != nil {
			return nil, err
		}
		launchPaths = append(launchPaths, this.applyShortcuts(call, tombstoned)...)
	}

	call, err := invokeHost(this.hostExecutable, descriptor, contracts.PhaseVersionInstalled, newVersion)
	if err != nil {
		return nil, err
	}
	launchPaths = append(launchPaths, this.applyShortcuts(call, tombstoned)...)

	if descriptor.LaunchOnSetup {
		launchPaths = append(launchPaths, descriptor.TargetPath)
	}
	return launchPaths, nil
}

func (this *Installer) applyShortcuts(call hostCall, tombstoned map[string]bool) []string {
	var targets []string
	for _, request := range call.Shortcuts {
		if tombstoned[request.TargetPath] {
			continue
		}
		targets = append(targets, request.TargetPath)
	}
	return targets
}

