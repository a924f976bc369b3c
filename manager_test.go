package shimmer_test

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/jeffora/shimmer"
	"github.com/jeffora/shimmer/contracts"
)

func TestManagerFixture(t *testing.T) {
	gunit.Run(new(ManagerFixture), t)
}

type ManagerFixture struct {
	*gunit.Fixture

	remoteDir string
	root      string
	manager   *shimmer.Manager
	entry     struct {
		filename string
		sha1     string
		size     int64
	}
}

func (this *ManagerFixture) Setup() {
	this.remoteDir, _ = os.MkdirTemp("", "shimmer-remote-")
	this.root, _ = os.MkdirTemp("", "shimmer-root-")

	this.publishFixturePackage("myapp-1.0.0.0.nupkg")

	hostScript := this.root + "-host.sh"
	_ = os.WriteFile(hostScript, []byte("#!/bin/sh\necho OK\n"), 0755)

	config := shimmer.NewConfig()
	config.RemoteAddress = this.remoteDir
	config.InstallationRoot = this.root
	config.TargetFrameworkProfile = "net40"
	config.HostExecutable = hostScript

	this.manager = shimmer.NewManager(config)
	this.So(this.manager.Initialize(), should.BeNil)
}

func (this *ManagerFixture) publishFixturePackage(filename string) {
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	part, _ := writer.Create("lib/net20/app.dll")
	_, _ = part.Write([]byte("net20 payload"))
	_ = writer.Close()

	content := buffer.Bytes()
	hasher := sha1.New()
	_, _ = hasher.Write(content)
	digest := hex.EncodeToString(hasher.Sum(nil))

	_ = os.WriteFile(this.remoteDir+"/"+filename, content, 0644)
	releasesLine := fmt.Sprintf("%s %s %d\n", digest, filename, len(content))
	_ = os.WriteFile(this.remoteDir+"/RELEASES", []byte(releasesLine), 0644)

	this.entry.filename = filename
	this.entry.sha1 = digest
	this.entry.size = int64(len(content))
}

func (this *ManagerFixture) TestBootstrapCheckDownloadApplyRewritesManifest() {
	ctx := context.Background()

	info, err := this.manager.CheckForUpdate(ctx, contracts.NoopProgress)
	this.So(err, should.BeNil)
	this.So(info, should.NotBeNil)
	this.So(info.IsBootstrapping, should.BeTrue)
	this.So(len(info.ReleasesToApply), should.Equal, 1)

	err = this.manager.DownloadReleases(ctx, info.ReleasesToApply, contracts.NoopProgress)
	this.So(err, should.BeNil)

	launchPaths, err := this.manager.ApplyReleases(*info, contracts.NoopProgress)
	this.So(err, should.BeNil)
	this.So(launchPaths, should.BeEmpty)

	installed, err := os.ReadFile(this.root + "/app-1.0.0.0/app.dll")
	this.So(err, should.BeNil)
	this.So(string(installed), should.Equal, "net20 payload")

	again, err := this.manager.CheckForUpdate(ctx, contracts.NoopProgress)
	this.So(err, should.BeNil)
	this.So(again, should.BeNil)
}

func (this *ManagerFixture) TestFullUninstallRemovesInstallationRoot() {
	ctx := context.Background()
	info, _ := this.manager.CheckForUpdate(ctx, contracts.NoopProgress)
	_ = this.manager.DownloadReleases(ctx, info.ReleasesToApply, contracts.NoopProgress)
	_, _ = this.manager.ApplyReleases(*info, contracts.NoopProgress)

	this.So(this.manager.FullUninstall(), should.BeNil)

	_, err := os.Stat(this.root)
	this.So(os.IsNotExist(err), should.BeTrue)
}
