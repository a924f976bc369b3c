package lock

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/smartystreets/clock"
	"github.com/smartystreets/logging"

	"github.com/jeffora/shimmer/contracts"
)

const (
	defaultTimeout = 2 * time.Second
	pollInterval   = 100 * time.Millisecond
)

// Manager grants exclusive access to an installation root, one holder at a
// time, across every process on the machine (spec.md §4.4). A single Manager
// also recognizes re-entrant Acquire calls for the same root from within its
// own process and hands back a shared Handle rather than deadlocking against
// itself.
type Manager struct {
	sleeper *clock.Sleeper
	logger  *logging.Logger
	timeout time.Duration

	mutex   sync.Mutex
	local   map[string]*Handle
	lockDir string
}

func NewManager() *Manager {
	logger := logging.Capture()
	logger.SetOutput(os.Stderr)
	return &Manager{
		sleeper: nil, // a nil *clock.Sleeper sleeps for real; tests inject clock.StayAwake()
		logger:  logger,
		timeout: defaultTimeout,
		local:   make(map[string]*Handle),
		lockDir: os.TempDir(),
	}
}

// Acquire blocks until it obtains exclusive access to installationRoot, or
// returns contracts.ErrAnotherInstanceActive once the timeout elapses.
func (this *Manager) Acquire(installationRoot string) (*Handle, error) {
	digest := digestOf(installationRoot)

	this.mutex.Lock()
	if existing, ok := this.local[digest]; ok {
		existing.refs++
		this.mutex.Unlock()
		return existing, nil
	}
	this.mutex.Unlock()

	path := filepath.Join(this.lockDir, fmt.Sprintf("shimmer-%s.lock", digest))
	deadline := time.Now().Add(this.timeout)
	for {
		if this.tryCreate(path) {
			handle := &Handle{manager: this, digest: digest, path: path, refs: 1}
			this.mutex.Lock()
			this.local[digest] = handle
			this.mutex.Unlock()
			return handle, nil
		}
		if this.reclaimIfStale(path) {
			continue
		}
		if time.Now().After(deadline) {
			return nil, contracts.ErrAnotherInstanceActive
		}
		this.logger.Println("[INFO] install lock held by another process, waiting.")
		this.sleeper.Sleep(pollInterval)
	}
}

func (this *Manager) tryCreate(path string) bool {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return false
	}
	defer func() { _ = file.Close() }()
	_, _ = file.WriteString(strconv.Itoa(os.Getpid()))
	return true
}

// reclaimIfStale removes path if the pid recorded inside it no longer names
// a running process, so a crashed holder doesn't wedge every future update
// attempt for this installation root.
func (this *Manager) reclaimIfStale(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return false
	}
	if processAlive(pid) {
		return false
	}
	this.logger.Println("[WARN] reclaiming install lock abandoned by dead process.")
	return os.Remove(path) == nil
}

func digestOf(installationRoot string) string {
	sum := sha1.Sum([]byte(filepath.Clean(installationRoot)))
	return hex.EncodeToString(sum[:])
}

// Handle represents one held lock, shared by every re-entrant Acquire of the
// same root. Each Release call drops one reference; the lock file is removed
// when the last reference goes, and any Release after that is a no-op.
type Handle struct {
	manager  *Manager
	digest   string
	path     string
	refs     int
	mutex    sync.Mutex
	released bool
}

func (this *Handle) Release() error {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	if this.released {
		return nil
	}

	this.manager.mutex.Lock()
	this.refs--
	remaining := this.refs
	if remaining <= 0 {
		delete(this.manager.local, this.digest)
	}
	this.manager.mutex.Unlock()

	if remaining > 0 {
		return nil
	}
	this.released = true
	return os.Remove(this.path)
}
