package fetch

import (
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestClassifyFixture(t *testing.T) {
	gunit.Run(new(ClassifyFixture), t)
}

type ClassifyFixture struct {
	*gunit.Fixture
}

func (this *ClassifyFixture) TestHTTPAddressesAreClassifiedAsHTTP() {
	this.So(Classify("http://example.com/channel"), should.Equal, KindHTTP)
	this.So(Classify("HTTPS://example.com/channel"), should.Equal, KindHTTP)
}

func (this *ClassifyFixture) TestEverythingElseIsALocalDirectory() {
	this.So(Classify("/mnt/releases"), should.Equal, KindLocalDirectory)
	this.So(Classify(`C:\releases`), should.Equal, KindLocalDirectory)
}
