package installer

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jeffora/shimmer/contracts"
)

// discoverSetup looks for an AppSetup-capable executable inside appDir.
// Reflective discovery of arbitrary plugin types (spec.md §9) has no Go
// analogue, so this module's convention is narrower: any top-level
// executable is a candidate host target, and cmd/shimmer-host itself
// determines at call time whether that target actually implements the
// protocol. If appDir has no executable at all, a DefaultSetup descriptor is
// synthesized from the directory name and a contracts.PluginLoadFailure is
// logged at WARN, never returned as fatal.
//
// Routed through fileSystem (§9's "all filesystem operations must route
// through an injectable abstraction") rather than os.ReadDir directly, so
// POST_INSTALL discovery is exercised against fs.InMemoryFileSystem in tests
// the same way every other installer step is.
func discoverSetup(fileSystem contracts.FileSystem, appDir string) (contracts.AppSetupDescriptor, *contracts.PluginLoadFailure) {
	entries, err := fileSystem.Listing(appDir)
	if err != nil {
		return defaultSetup(appDir), &contracts.PluginLoadFailure{ExecutablePath: appDir, Cause: err}
	}
	for _, entry := range entries {
		name := entry.Path()
		if strings.Contains(name, "/") {
			continue // Listing recurses; only a top-level file is a host candidate
		}
		if isExecutableCandidate(name) {
			return contracts.AppSetupDescriptor{
				Kind:          contracts.DiscoveredSetup,
				ShortcutName:  strings.TrimSuffix(name, filepath.Ext(name)),
				TargetPath:    filepath.Join(appDir, name),
				LaunchOnSetup: true,
			}, nil
		}
	}
	name := filepath.Base(appDir)
	return defaultSetup(appDir), &contracts.PluginLoadFailure{ExecutablePath: appDir, Cause: errNoExecutableFound(name)}
}

func defaultSetup(appDir string) contracts.AppSetupDescriptor {
	return contracts.AppSetupDescriptor{
		Kind:         contracts.DefaultSetup,
		ShortcutName: filepath.Base(appDir),
		TargetPath:   appDir,
	}
}

func isExecutableCandidate(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".exe") || strings.HasSuffix(lower, ".appsetup")
}

func errNoExecutableFound(name string) error {
	return &noExecutableFoundError{appName: name}
}

type noExecutableFoundError struct{ appName string }

func (this *noExecutableFoundError) Error() string {
	return "no executable found to host AppSetup for " + this.appName
}

// invokeHost launches cmd/shimmer-host against descriptor, asking it to run
// the given lifecycle phase for version, and returns whatever shortcuts or
// tombstones it reported. Any failure surfaces as contracts.HookThrew: the
// subprocess failing to start or exiting non-zero, an ERROR line, or output
// that does not follow the protocol.
func invokeHost(hostExecutable string, descriptor contracts.AppSetupDescriptor, phase contracts.HookPhase, version string) (hostCall, error) {
	cmd := exec.Command(hostExecutable, string(phase), descriptor.TargetPath, version)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return hostCall{}, &contracts.HookThrew{SetupType: descriptor.ShortcutName, Phase: string(phase), Cause: err}
	}
	call, err := parseHostProtocol(stdout.String())
	if err != nil {
		return hostCall{}, &contracts.HookThrew{SetupType: descriptor.ShortcutName, Phase: string(phase), Cause: err}
	}
	return call, nil
}
