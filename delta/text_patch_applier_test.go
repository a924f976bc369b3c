package delta

import (
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/jeffora/shimmer/fs"
)

func TestTextPatchApplierFixture(t *testing.T) {
	gunit.Run(new(TextPatchApplierFixture), t)
}

type TextPatchApplierFixture struct {
	*gunit.Fixture
	fileSystem *fs.InMemoryFileSystem
	applier    *textPatchApplier
}

func (this *TextPatchApplierFixture) Setup() {
	this.fileSystem = fs.NewInMemoryFileSystem()
	this.applier = NewTextPatchApplier(this.fileSystem)
}

func (this *TextPatchApplierFixture) TestBuildThenApplyRoundTrips() {
	base := "line one\nline two\nline three\n"
	target := "line one\nline 2 changed\nline three\nline four\n"

	patch, err := BuildTextDelta(base, target, "base.nupkg", "target.nupkg")
	this.So(err, should.BeNil)
	this.So(patch, should.NotEqual, "")

	_ = this.fileSystem.WriteFile("/packages/base.nupkg", []byte(base))
	_ = this.fileSystem.WriteFile("/packages/delta.patch", []byte(patch))

	err = this.applier.Apply("/packages/base.nupkg", "/packages/delta.patch", "/packages/target.nupkg")
	this.So(err, should.BeNil)

	result, err := this.fileSystem.ReadFile("/packages/target.nupkg")
	this.So(err, should.BeNil)
	this.So(string(result), should.Equal, target)
}

func (this *TextPatchApplierFixture) TestEmptyDiffReproducesBaseUnchanged() {
	base := "unchanged content\n"
	_ = this.fileSystem.WriteFile("/packages/base.nupkg", []byte(base))
	_ = this.fileSystem.WriteFile("/packages/delta.patch", []byte(""))

	err := this.applier.Apply("/packages/base.nupkg", "/packages/delta.patch", "/packages/target.nupkg")
	this.So(err, should.BeNil)

	result, _ := this.fileSystem.ReadFile("/packages/target.nupkg")
	this.So(string(result), should.Equal, base)
}
