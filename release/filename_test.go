package release

import (
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestClassifyFilenameFixture(t *testing.T) {
	gunit.Run(new(ClassifyFilenameFixture), t)
}

type ClassifyFilenameFixture struct {
	*gunit.Fixture
}

func (this *ClassifyFilenameFixture) TestFullPackage() {
	id, version, isDelta, err := ClassifyFilename("MyApp-1.2.3.nupkg")
	this.So(err, should.BeNil)
	this.So(id, should.Equal, "MyApp")
	this.So(version, should.Resemble, Version{Major: 1, Minor: 2, Build: 3})
	this.So(isDelta, should.BeFalse)
}

func (this *ClassifyFilenameFixture) TestDeltaPackage() {
	id, version, isDelta, err := ClassifyFilename("MyApp-1.2.3-delta.nupkg")
	this.So(err, should.BeNil)
	this.So(id, should.Equal, "MyApp")
	this.So(version, should.Resemble, Version{Major: 1, Minor: 2, Build: 3})
	this.So(isDelta, should.BeTrue)
}

func (this *ClassifyFilenameFixture) TestCaseInsensitiveDeltaSuffixAndExtension() {
	_, _, isDelta, err := ClassifyFilename("MyApp-1.2.3-DELTA.NUPKG")
	this.So(err, should.BeNil)
	this.So(isDelta, should.BeTrue)
}

func (this *ClassifyFilenameFixture) TestPackageIdMayContainDashes() {
	id, version, _, err := ClassifyFilename("My-Great-App-2.0.0.0.nupkg")
	this.So(err, should.BeNil)
	this.So(id, should.Equal, "My-Great-App")
	this.So(version, should.Resemble, Version{Major: 2})
}

func (this *ClassifyFilenameFixture) TestRejectsMissingExtension() {
	_, _, _, err := ClassifyFilename("MyApp-1.2.3.zip")
	this.So(err, should.NotBeNil)
}

func (this *ClassifyFilenameFixture) TestRejectsPathSeparators() {
	_, _, _, err := ClassifyFilename("../evil-1.0.0.nupkg")
	this.So(err, should.NotBeNil)

	_, _, _, err = ClassifyFilename(`sub\dir-1.0.0.nupkg`)
	this.So(err, should.NotBeNil)
}

func (this *ClassifyFilenameFixture) TestRejectsMissingVersionSeparator() {
	_, _, _, err := ClassifyFilename("MyApp.nupkg")
	this.So(err, should.NotBeNil)
}

func (this *ClassifyFilenameFixture) TestComposeFullFilenameStripsDeltaSuffix() {
	full, err := ComposeFullFilename("MyApp-1.2.3-delta.nupkg")
	this.So(err, should.BeNil)
	this.So(full, should.Equal, "MyApp-1.2.3.nupkg")
}

func (this *ClassifyFilenameFixture) TestComposeFullFilenameRejectsNonDelta() {
	_, err := ComposeFullFilename("MyApp-1.2.3.nupkg")
	this.So(err, should.NotBeNil)
}
