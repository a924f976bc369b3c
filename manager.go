package shimmer

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/smartystreets/clock"
	"github.com/smartystreets/logging"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/delta"
	"github.com/jeffora/shimmer/fetch"
	"github.com/jeffora/shimmer/fs"
	"github.com/jeffora/shimmer/installer"
	"github.com/jeffora/shimmer/lock"
	"github.com/jeffora/shimmer/plan"
	"github.com/jeffora/shimmer/release"
	"github.com/jeffora/shimmer/store"
)

// Manager is the pipeline spec.md §4.9 describes: each pipeline call
// (CheckForUpdate, DownloadReleases, ApplyReleases, FullUninstall,
// UpdateLocalManifest) acquires the machine-wide install lock (package lock)
// for its own duration and releases it before returning, so a caller never
// has to manage the lock directly. Initialize takes no lock, and Run holds it
// only inside the pipeline calls it makes.
type Manager struct {
	config      *Config
	fileSystem  contracts.FileSystem
	store       *store.Store
	fetcher     *fetch.Fetcher
	composer    *delta.Composer
	installer   *installer.Installer
	lockManager *lock.Manager
	logger      *logging.Logger
	sleeper     *clock.Sleeper
}

// NewManager builds a Manager against the local disk, wiring the artifact
// store, remote fetcher, delta composer and installer together from config.
func NewManager(config *Config) *Manager {
	fileSystem := fs.NewDiskFileSystem()
	artifactStore := store.NewStore(fileSystem, config.packagesDir())
	applier := delta.NewTextPatchApplier(fileSystem)
	composer := delta.NewComposer(fileSystem, config.packagesDir(), applier)

	logger := logging.Capture()
	logger.SetOutput(os.Stderr)

	return &Manager{
		config:      config,
		fileSystem:  fileSystem,
		store:       artifactStore,
		fetcher:     fetch.NewFetcher(&http.Client{}, config.MaxDownloadRetries),
		composer:    composer,
		installer:   installer.NewInstaller(fileSystem, artifactStore, composer, config.HostExecutable, config.TargetFrameworkProfile),
		lockManager: lock.NewManager(),
		logger:      logger,
		sleeper:     nil, // a nil *clock.Sleeper sleeps for real between Run cycles
	}
}

// Initialize ensures the installation root's packages directory exists.
func (this *Manager) Initialize() error {
	return this.fileSystem.MkdirAll(this.config.packagesDir())
}

// CheckForUpdate compares the local manifest against the remote one and
// returns the plan to apply, or nil if the installation is already current.
func (this *Manager) CheckForUpdate(ctx context.Context, progress contracts.ProgressSink) (*contracts.UpdateInfo, error) {
	handle, err := this.lockManager.Acquire(this.config.InstallationRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = handle.Release() }()
	defer progress.OnProgress(100)

	local, err := this.localManifest()
	if err != nil {
		return nil, err
	}
	progress.OnProgress(30)

	remote, err := this.fetcher.FetchManifest(ctx, this.config.RemoteAddress)
	if err != nil {
		return nil, err
	}
	progress.OnProgress(70)

	info, err := plan.Plan(local, remote, this.config.IgnoreDeltaUpdates)
	if err != nil || info == nil {
		return nil, err
	}
	info.PackageDirectory = this.config.packagesDir()
	info.AppFrameworkVersion = this.config.TargetFrameworkProfile
	return info, nil
}

// DownloadReleases fetches every entry in entries into the local store.
func (this *Manager) DownloadReleases(ctx context.Context, entries []release.Entry, progress contracts.ProgressSink) error {
	handle, err := this.lockManager.Acquire(this.config.InstallationRoot)
	if err != nil {
		return err
	}
	defer func() { _ = handle.Release() }()
	defer progress.OnProgress(100)

	return this.fetcher.FetchAll(ctx, this.config.RemoteAddress, entries, this.store, progress)
}

// ApplyReleases runs the full install state machine for info and returns
// every launch path the hosted AppSetup reported.
func (this *Manager) ApplyReleases(info contracts.UpdateInfo, progress contracts.ProgressSink) ([]string, error) {
	handle, err := this.lockManager.Acquire(this.config.InstallationRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = handle.Release() }()
	defer progress.OnProgress(100)

	return this.installer.Install(this.config.InstallationRoot, info, progress)
}

// FullUninstall notifies the currently installed version's AppSetup that the
// application is being removed entirely, then deletes the installation root.
func (this *Manager) FullUninstall() error {
	handle, err := this.lockManager.Acquire(this.config.InstallationRoot)
	if err != nil {
		return err
	}
	defer func() { _ = handle.Release() }()

	local, err := this.localManifest()
	if err != nil {
		return err
	}
	if err := this.installer.Uninstall(this.config.InstallationRoot, local.CurrentVersion()); err != nil {
		return err
	}
	return this.fileSystem.Delete(this.config.InstallationRoot)
}

// UpdateLocalManifest rescans packages/ and rewrites RELEASES, without
// running the rest of the install pipeline. Useful after a manual package
// drop into packages/, or for repairing a manifest by hand.
func (this *Manager) UpdateLocalManifest() (release.Manifest, error) {
	handle, err := this.lockManager.Acquire(this.config.InstallationRoot)
	if err != nil {
		return release.Manifest{}, err
	}
	defer func() { _ = handle.Release() }()

	return installer.RewriteManifest(this.fileSystem, this.config.InstallationRoot)
}

// Run polls for updates every CheckIntervalSeconds until ctx is cancelled,
// downloading and applying whatever plan CheckForUpdate returns. Errors are
// logged, never fatal: a single failed cycle doesn't stop the loop.
func (this *Manager) Run(ctx context.Context, progress contracts.ProgressSink) {
	interval := time.Duration(this.config.CheckIntervalSeconds * float64(time.Second))
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := this.runOnce(ctx, progress); err != nil {
			this.logger.Printf("[WARN] update cycle failed: %s", err)
		}

		this.sleeper.Sleep(interval)
	}
}

func (this *Manager) runOnce(ctx context.Context, progress contracts.ProgressSink) error {
	info, err := this.CheckForUpdate(ctx, progress)
	if err != nil {
		return err
	}
	if info == nil {
		return nil
	}
	this.logger.Printf("[INFO] update available, %d release(s) to apply.", len(info.ReleasesToApply))

	if err := this.DownloadReleases(ctx, info.ReleasesToApply, progress); err != nil {
		return err
	}
	_, err = this.ApplyReleases(*info, progress)
	return err
}

func (this *Manager) localManifest() (release.Manifest, error) {
	raw, err := this.fileSystem.ReadFile(this.config.packagesDir() + "/RELEASES")
	if errors.Is(err, os.ErrNotExist) {
		return release.Manifest{}, nil
	}
	if err != nil {
		return release.Manifest{}, err
	}
	return release.ParseManifest(bytes.NewReader(raw))
}
