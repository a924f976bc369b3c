package delta

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/fs"
	"github.com/jeffora/shimmer/release"
)

func TestComposerFixture(t *testing.T) {
	gunit.Run(new(ComposerFixture), t)
}

type ComposerFixture struct {
	*gunit.Fixture
	fileSystem *fs.InMemoryFileSystem
	composer   *Composer
}

func (this *ComposerFixture) Setup() {
	this.fileSystem = fs.NewInMemoryFileSystem()
	this.composer = NewComposer(this.fileSystem, "/packages", NewIdentityApplier(this.fileSystem))
}

func (this *ComposerFixture) writePackage(filename, content string) release.Entry {
	sum := sha1.Sum([]byte(content))
	entry, err := release.NewEntry(hex.EncodeToString(sum[:]), filename, int64(len(content)))
	this.So(err, should.BeNil)
	_ = this.fileSystem.WriteFile(release.ComposePackagePath("/packages", entry.Filename), []byte(content))
	return entry
}

func (this *ComposerFixture) TestAllFullReturnsLargestDirectly() {
	a := this.writePackage("MyApp-1.0.0.nupkg", "one")
	b := this.writePackage("MyApp-1.1.0.nupkg", "two")

	result, err := this.composer.Compose(nil, []release.Entry{a, b})
	this.So(err, should.BeNil)
	this.So(result.Filename, should.Equal, "myapp-1.1.0.nupkg")
}

func (this *ComposerFixture) TestMixedFullAndDeltaIsRejected() {
	full := this.writePackage("MyApp-1.0.0.nupkg", "one")
	delta := this.writePackage("MyApp-1.1.0-delta.nupkg", "d")

	_, err := this.composer.Compose(&full, []release.Entry{full, delta})
	this.So(err, should.Equal, contracts.ErrMixedFullAndDelta)
}

func (this *ComposerFixture) TestDeltaChainWithoutCurrentVersionFails() {
	delta := this.writePackage("MyApp-1.1.0-delta.nupkg", "next contents")
	_, err := this.composer.Compose(nil, []release.Entry{delta})
	this.So(err, should.NotBeNil)
}

func (this *ComposerFixture) TestSingleDeltaComposesAgainstBase() {
	current := this.writePackage("MyApp-1.0.0.nupkg", "base contents")
	delta := this.writePackage("MyApp-1.1.0-delta.nupkg", "next contents")

	result, err := this.composer.Compose(&current, []release.Entry{delta})
	this.So(err, should.BeNil)
	this.So(result.Filename, should.Equal, "myapp-1.1.0.nupkg")

	content, _ := this.fileSystem.ReadFile(release.ComposePackagePath("/packages", "myapp-1.1.0.nupkg"))
	this.So(string(content), should.Equal, "next contents")
}

func (this *ComposerFixture) TestChainOfTwoDeltasAppliesInAscendingOrder() {
	current := this.writePackage("MyApp-1.0.0.nupkg", "v1")
	deltaTwo := this.writePackage("MyApp-1.2.0-delta.nupkg", "v3")
	deltaOne := this.writePackage("MyApp-1.1.0-delta.nupkg", "v2")

	result, err := this.composer.Compose(&current, []release.Entry{deltaTwo, deltaOne})
	this.So(err, should.BeNil)
	this.So(result.Filename, should.Equal, "myapp-1.2.0.nupkg")

	content, _ := this.fileSystem.ReadFile(release.ComposePackagePath("/packages", "myapp-1.2.0.nupkg"))
	this.So(string(content), should.Equal, "v3")
}

func (this *ComposerFixture) TestApplierFailureWrapsDeltaApplicationFailed() {
	current := this.writePackage("MyApp-1.0.0.nupkg", "base contents")
	delta := release.Entry{SHA1: "ffff", Filename: "myapp-1.1.0-delta.nupkg", Filesize: 0, Version: release.Version{Major: 1, Minor: 1}, IsDelta: true}

	_, err := this.composer.Compose(&current, []release.Entry{delta})
	this.So(err, should.NotBeNil)
	_, ok := err.(*contracts.DeltaApplicationFailed)
	this.So(ok, should.BeTrue)
}
