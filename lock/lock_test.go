package lock

import (
	"os"
	"testing"
	"time"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/clock"
	"github.com/smartystreets/gunit"
	"github.com/smartystreets/logging"

	"github.com/jeffora/shimmer/contracts"
)

func TestManagerFixture(t *testing.T) {
	gunit.Run(new(ManagerFixture), t)
}

type ManagerFixture struct {
	*gunit.Fixture
	manager *Manager
	root    string
}

func (this *ManagerFixture) Setup() {
	this.manager = NewManager()
	this.manager.sleeper = clock.StayAwake()
	this.manager.logger = logging.Capture()
	this.manager.timeout = 50 * time.Millisecond
	this.manager.lockDir, _ = os.MkdirTemp("", "shimmer-lock-test")
	this.root = "/opt/myapp"
}

func (this *ManagerFixture) TestAcquireThenReleaseAllowsReacquire() {
	handle, err := this.manager.Acquire(this.root)
	this.So(err, should.BeNil)
	this.So(handle.Release(), should.BeNil)

	second, err := this.manager.Acquire(this.root)
	this.So(err, should.BeNil)
	this.So(second.Release(), should.BeNil)
}

func (this *ManagerFixture) TestReentrantAcquireFromSameManagerSharesHandle() {
	first, err := this.manager.Acquire(this.root)
	this.So(err, should.BeNil)

	second, err := this.manager.Acquire(this.root)
	this.So(err, should.BeNil)
	this.So(second, should.Equal, first)

	this.So(first.Release(), should.BeNil)
	// still held: second reference outstanding
	_, err = os.Stat(first.path)
	this.So(err, should.BeNil)

	this.So(second.Release(), should.BeNil)
	_, err = os.Stat(first.path)
	this.So(err, should.NotBeNil)
}

func (this *ManagerFixture) TestReleaseIsIdempotent() {
	handle, _ := this.manager.Acquire(this.root)
	this.So(handle.Release(), should.BeNil)
	this.So(handle.Release(), should.BeNil)
}

func (this *ManagerFixture) TestAcquireTimesOutWhenHeldByAnotherManager() {
	other := NewManager()
	other.lockDir = this.manager.lockDir
	holder, err := other.Acquire(this.root)
	this.So(err, should.BeNil)
	defer func() { _ = holder.Release() }()

	_, err = this.manager.Acquire(this.root)
	this.So(err, should.Equal, contracts.ErrAnotherInstanceActive)
}

func (this *ManagerFixture) TestAcquireReclaimsLockAbandonedByDeadProcess() {
	holder, err := this.manager.Acquire(this.root)
	this.So(err, should.BeNil)

	// Simulate a foreign process by writing a pid that can't be running.
	_ = os.WriteFile(holder.path, []byte("999999999"), 0644)
	delete(this.manager.local, holder.digest)

	reacquired, err := this.manager.Acquire(this.root)
	this.So(err, should.BeNil)
	this.So(reacquired.Release(), should.BeNil)
}
