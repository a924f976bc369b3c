package release

import (
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestVersionFixture(t *testing.T) {
	gunit.Run(new(VersionFixture), t)
}

type VersionFixture struct {
	*gunit.Fixture
}

func (this *VersionFixture) TestParseFullVersion() {
	v, err := ParseVersion("1.2.3.4")
	this.So(err, should.BeNil)
	this.So(v, should.Resemble, Version{Major: 1, Minor: 2, Build: 3, Revision: 4})
}

func (this *VersionFixture) TestMissingComponentsDefaultToZero() {
	v, err := ParseVersion("1.2")
	this.So(err, should.BeNil)
	this.So(v, should.Resemble, Version{Major: 1, Minor: 2})
}

func (this *VersionFixture) TestRejectsTooManyComponents() {
	_, err := ParseVersion("1.2.3.4.5")
	this.So(err, should.NotBeNil)
}

func (this *VersionFixture) TestRejectsNonNumeric() {
	_, err := ParseVersion("1.x.0.0")
	this.So(err, should.NotBeNil)
}

func (this *VersionFixture) TestString() {
	v := Version{Major: 1, Minor: 2, Build: 3, Revision: 4}
	this.So(v.String(), should.Equal, "1.2.3.4")
}

func (this *VersionFixture) TestCompareOrdersByEachComponentInTurn() {
	this.So(Version{Major: 1}.Compare(Version{Major: 2}), should.Equal, -1)
	this.So(Version{Major: 1, Minor: 5}.Compare(Version{Major: 1, Minor: 4}), should.Equal, 1)
	this.So(Version{Major: 1, Minor: 2, Build: 3, Revision: 4}.Compare(Version{Major: 1, Minor: 2, Build: 3, Revision: 4}), should.Equal, 0)
}

func (this *VersionFixture) TestLessAndEqual() {
	this.So(Version{Major: 1}.Less(Version{Major: 2}), should.BeTrue)
	this.So(Version{Major: 2}.Less(Version{Major: 1}), should.BeFalse)
	this.So(Version{Major: 1, Minor: 2}.Equal(Version{Major: 1, Minor: 2}), should.BeTrue)
}
