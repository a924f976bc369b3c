package installer_test

import (
	"archive/zip"
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/delta"
	"github.com/jeffora/shimmer/fs"
	"github.com/jeffora/shimmer/installer"
	"github.com/jeffora/shimmer/release"
	"github.com/jeffora/shimmer/store"
)

func TestInstallerFixture(t *testing.T) {
	gunit.Run(new(InstallerFixture), t)
}

type InstallerFixture struct {
	*gunit.Fixture

	root        string
	fileSystem  *fs.DiskFileSystem
	store       *store.Store
	composer    *delta.Composer
	installer   *installer.Installer
	futureEntry release.Entry
}

func (this *InstallerFixture) Setup() {
	this.root, _ = os.MkdirTemp("", "shimmer-installer-")
	this.fileSystem = fs.NewDiskFileSystem()
	this.store = store.NewStore(this.fileSystem, this.root+"/packages")
	this.composer = delta.NewComposer(this.fileSystem, this.root+"/packages", delta.NewIdentityApplier(this.fileSystem))

	hostScript := this.root + "/host.sh"
	_ = os.WriteFile(hostScript, []byte("#!/bin/sh\necho OK\n"), 0755)

	this.installer = installer.NewInstaller(this.fileSystem, this.store, this.composer, hostScript, "net40")
	this.futureEntry = this.writePackageFixture("myapp-1.0.0.0.nupkg")
}

// writePackageFixture builds a real zip package containing both a net20 and
// a net45 framework payload, so the extraction step's profile filter has
// something real to include and exclude.
func (this *InstallerFixture) writePackageFixture(filename string) release.Entry {
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	this.writeZipEntry(writer, "lib/net20/app.dll", "net20 payload")
	this.writeZipEntry(writer, "lib/net45/app.dll", "net45 payload")
	_ = writer.Close()

	content := buffer.Bytes()
	hasher := sha1.New()
	_, _ = hasher.Write(content)
	digest := hex.EncodeToString(hasher.Sum(nil))

	_ = this.fileSystem.WriteFile(this.root+"/packages/"+filename, content)
	entry, err := release.NewEntry(digest, filename, int64(len(content)))
	this.So(err, should.BeNil)
	return entry
}

func (this *InstallerFixture) writeZipEntry(writer *zip.Writer, name, content string) {
	part, _ := writer.Create(name)
	_, _ = part.Write([]byte(content))
}

func (this *InstallerFixture) TestBootstrapInstallExtractsFilteredFilesAndWritesManifest() {
	info := contracts.UpdateInfo{
		ReleasesToApply:    []release.Entry{this.futureEntry},
		FutureReleaseEntry: this.futureEntry,
		IsBootstrapping:    true,
	}

	var percentages []int
	progress := contracts.ProgressFunc(func(percent int) { percentages = append(percentages, percent) })

	launchPaths, err := this.installer.Install(this.root, info, progress)
	this.So(err, should.BeNil)
	this.So(launchPaths, should.BeEmpty)
	this.So(percentages[len(percentages)-1], should.Equal, 100)

	appDir := this.root + "/app-1.0.0.0"
	content, err := this.fileSystem.ReadFile(appDir + "/app.dll")
	this.So(err, should.BeNil)
	this.So(string(content), should.Equal, "net20 payload")

	manifestBytes, err := this.fileSystem.ReadFile(this.root + "/packages/RELEASES")
	this.So(err, should.BeNil)
	this.So(string(manifestBytes), should.ContainSubstring, "myapp-1.0.0.0.nupkg")
}

func (this *InstallerFixture) TestCleanDeadRemovesStaleVersionDirectories() {
	staleDir := this.root + "/app-0.9.0.0"
	_ = this.fileSystem.WriteFile(staleDir+"/leftover.txt", []byte("old"))

	info := contracts.UpdateInfo{
		ReleasesToApply:    []release.Entry{this.futureEntry},
		FutureReleaseEntry: this.futureEntry,
		IsBootstrapping:    true,
	}
	_, err := this.installer.Install(this.root, info, contracts.NoopProgress)
	this.So(err, should.BeNil)

	_, statErr := this.fileSystem.Stat(staleDir)
	this.So(statErr, should.NotBeNil)
}
