package contracts

import (
	"errors"
	"fmt"
)

// ErrCorruptRemoteManifest is returned by the planner when the remote
// manifest is empty, unreadable, or otherwise cannot ground a plan.
var ErrCorruptRemoteManifest = errors.New("corrupt or empty remote manifest")

// TransportFailure wraps any network or filesystem read failure encountered
// while fetching a manifest or artifact.
type TransportFailure struct {
	URL   string
	Cause error
}

func (this *TransportFailure) Error() string {
	return fmt.Sprintf("transport failure fetching %q: %s", this.URL, this.Cause)
}

func (this *TransportFailure) Unwrap() error { return this.Cause }

// ErrArtifactMissing, ErrSizeMismatch and ErrDigestMismatch are raised by the
// artifact store (package store) while verifying a downloaded package. In
// every case the offending file has already been deleted by the time the
// caller observes the error, so a retry can re-download cleanly.
var (
	ErrArtifactMissing  = errors.New("artifact missing")
	ErrSizeMismatch     = errors.New("artifact size mismatch")
	ErrDigestMismatch   = errors.New("artifact digest mismatch")
	ErrMixedFullAndDelta = errors.New("releases to apply mix full and delta entries")
)

// DeltaApplicationFailed reports that applying a single delta in a chain
// failed; Version identifies which delta.
type DeltaApplicationFailed struct {
	Version string
	Cause   error
}

func (this *DeltaApplicationFailed) Error() string {
	return fmt.Sprintf("delta application failed for version %s: %s", this.Version, this.Cause)
}

func (this *DeltaApplicationFailed) Unwrap() error { return this.Cause }

// ErrAnotherInstanceActive is returned by the lock package when acquisition
// times out because another process already holds the machine-wide lock for
// the same installation root.
var ErrAnotherInstanceActive = errors.New("another instance is already updating this installation")

// PluginLoadFailure records that the reflective (subprocess-hosted) discovery
// of an AppSetup implementation failed; the installer degrades to a
// DefaultSetup and continues, so this is carried as a value, not returned as
// a fatal error.
type PluginLoadFailure struct {
	ExecutablePath string
	Cause          error
}

func (this *PluginLoadFailure) Error() string {
	return fmt.Sprintf("failed to load AppSetup plugin from %q: %s", this.ExecutablePath, this.Cause)
}

func (this *PluginLoadFailure) Unwrap() error { return this.Cause }

// HookThrew reports that an AppSetup lifecycle call failed inside the hosted
// subprocess. Phase is one of "install", "uninstalling", "installed",
// "uninstall".
type HookThrew struct {
	SetupType string
	Phase     string
	Cause     error
}

func (this *HookThrew) Error() string {
	return fmt.Sprintf("%s hook threw during %s: %s", this.SetupType, this.Phase, this.Cause)
}

func (this *HookThrew) Unwrap() error { return this.Cause }
