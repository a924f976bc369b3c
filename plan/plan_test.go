package plan

import (
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/release"
)

func TestPlanFixture(t *testing.T) {
	gunit.Run(new(PlanFixture), t)
}

type PlanFixture struct {
	*gunit.Fixture
}

func (this *PlanFixture) entry(sha1, filename string, size int64) release.Entry {
	e, err := release.NewEntry(sha1, filename, size)
	this.So(err, should.BeNil)
	return e
}

func (this *PlanFixture) TestEmptyRemoteIsCorrupt() {
	_, err := Plan(release.Manifest{}, release.Manifest{}, false)
	this.So(err, should.Equal, contracts.ErrCorruptRemoteManifest)
}

func (this *PlanFixture) TestIdenticalManifestsNeedNoUpdate() {
	local := release.Manifest{Entries: []release.Entry{this.entry("aaaa", "MyApp-1.0.0.nupkg", 1)}}
	remote := release.Manifest{Entries: []release.Entry{this.entry("aaaa", "MyApp-1.0.0.nupkg", 1)}}

	info, err := Plan(local, remote, false)
	this.So(err, should.BeNil)
	this.So(info, should.BeNil)
}

func (this *PlanFixture) TestBootstrapInstallsLargestFullRelease() {
	remote := release.Manifest{Entries: []release.Entry{
		this.entry("aaaa", "MyApp-1.0.0.nupkg", 1),
		this.entry("bbbb", "MyApp-1.1.0.nupkg", 1),
	}}

	info, err := Plan(release.Manifest{}, remote, false)
	this.So(err, should.BeNil)
	this.So(info.IsBootstrapping, should.BeTrue)
	this.So(info.FutureReleaseEntry.Filename, should.Equal, "myapp-1.1.0.nupkg")
}

func (this *PlanFixture) TestDowngradeOrCorruptionReinstallsLatestFull() {
	local := release.Manifest{Entries: []release.Entry{this.entry("aaaa", "MyApp-2.0.0.nupkg", 1)}}
	remote := release.Manifest{Entries: []release.Entry{this.entry("bbbb", "MyApp-1.5.0.nupkg", 1)}}

	info, err := Plan(local, remote, false)
	this.So(err, should.BeNil)
	this.So(info.IsBootstrapping, should.BeFalse)
	this.So(info.FallbackReason, should.NotEqual, "")
	this.So(info.FutureReleaseEntry.Filename, should.Equal, "myapp-1.5.0.nupkg")
}

func (this *PlanFixture) TestContiguousDeltaChainIsApplied() {
	local := release.Manifest{Entries: []release.Entry{this.entry("aaaa", "MyApp-1.0.0.nupkg", 1)}}
	remote := release.Manifest{Entries: []release.Entry{
		this.entry("aaaa", "MyApp-1.0.0.nupkg", 1),
		this.entry("bbbb", "MyApp-1.1.0.nupkg", 1),
		this.entry("cccc", "MyApp-1.1.0-delta.nupkg", 1),
		this.entry("dddd", "MyApp-1.2.0.nupkg", 1),
		this.entry("eeee", "MyApp-1.2.0-delta.nupkg", 1),
	}}

	info, err := Plan(local, remote, false)
	this.So(err, should.BeNil)
	this.So(info.FallbackReason, should.Equal, "")
	this.So(len(info.ReleasesToApply), should.Equal, 2)
	this.So(info.FutureReleaseEntry.Filename, should.Equal, "myapp-1.2.0-delta.nupkg")
}

func (this *PlanFixture) TestGapInDeltaChainFallsBackToFullRelease() {
	local := release.Manifest{Entries: []release.Entry{this.entry("aaaa", "MyApp-1.0.0.nupkg", 1)}}
	remote := release.Manifest{Entries: []release.Entry{
		this.entry("aaaa", "MyApp-1.0.0.nupkg", 1),
		this.entry("bbbb", "MyApp-1.1.0.nupkg", 1),
		this.entry("dddd", "MyApp-1.2.0.nupkg", 1),
		this.entry("eeee", "MyApp-1.2.0-delta.nupkg", 1),
	}}

	info, err := Plan(local, remote, false)
	this.So(err, should.BeNil)
	this.So(info.FallbackReason, should.NotEqual, "")
	this.So(len(info.ReleasesToApply), should.Equal, 1)
	this.So(info.ReleasesToApply[0].IsDelta, should.BeFalse)
	this.So(info.FutureReleaseEntry.Filename, should.Equal, "myapp-1.2.0.nupkg")
}

func (this *PlanFixture) TestIgnoreDeltaUpdatesFiltersDeltaEntries() {
	local := release.Manifest{Entries: []release.Entry{this.entry("aaaa", "MyApp-1.0.0.nupkg", 1)}}
	remote := release.Manifest{Entries: []release.Entry{
		this.entry("aaaa", "MyApp-1.0.0.nupkg", 1),
		this.entry("bbbb", "MyApp-1.1.0.nupkg", 1),
		this.entry("cccc", "MyApp-1.1.0-delta.nupkg", 1),
	}}

	info, err := Plan(local, remote, true)
	this.So(err, should.BeNil)
	this.So(len(info.ReleasesToApply), should.Equal, 1)
	this.So(info.ReleasesToApply[0].IsDelta, should.BeFalse)
}
