// Command shimmer-host is the isolated subprocess the installer launches for
// every AppSetup lifecycle call (spec.md §9's "isolated runtime context").
// It is invoked as:
//
//	shimmer-host <phase> <target> <version>
//
// where phase is one of install/installed/uninstalling/uninstall, target is
// the AppSetupDescriptor's TargetPath, and it answers on stdout with the
// line protocol installer/host_protocol.go parses: zero or more SHORTCUT or
// TOMBSTONE lines, followed by a terminal OK or ERROR line.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/installer"
)

// shortcutDescriptor is the appsetup.json sidecar file an application ships
// next to its executable, describing the one shortcut that application
// wants. cmd/shimmer-publish does not generate it; it is packaged like any
// other file of the source tree. This is this module's stand-in for .NET's
// reflective discovery of AppSetup-implementing types: there is nothing to
// reflect over in a compiled Go (or arbitrary native) binary, so the
// capability is declared data instead.
type shortcutDescriptor struct {
	ShortcutName string
	Arguments    string
	WorkingDir   string
	IconPath     string
	Pinned       bool
}

func main() {
	if len(os.Args) != 4 {
		fmt.Println("ERROR usage: shimmer-host <phase> <target> <version>")
		os.Exit(1)
	}
	phase, target := os.Args[1], os.Args[2]

	descriptor, err := loadDescriptor(target)
	if err != nil {
		fmt.Printf("ERROR %s\n", err)
		os.Exit(1)
	}

	switch contracts.HookPhase(phase) {
	case contracts.PhaseAppInstall, contracts.PhaseVersionInstalled:
		if descriptor != nil {
			fmt.Println(installer.FormatShortcutLine(contracts.ShortcutCreationRequest{
				Name:       descriptor.ShortcutName,
				TargetPath: target,
				Arguments:  descriptor.Arguments,
				WorkingDir: descriptor.WorkingDir,
				IconPath:   descriptor.IconPath,
				Pinned:     descriptor.Pinned,
			}))
		}
	case contracts.PhaseVersionUninstalling, contracts.PhaseAppUninstall:
		// This minimal convention has no shell-side shortcut registry to
		// query for tombstones; a real host would enumerate the Start Menu
		// / taskbar and report back any the user had since removed.
	default:
		fmt.Printf("ERROR unrecognized phase %q\n", phase)
		os.Exit(1)
	}

	fmt.Println("OK")
}

// loadDescriptor reads appsetup.json from alongside target (its own
// directory if target is a file, or target itself if target is the
// DefaultSetup directory). A missing sidecar is not an error: it just means
// this application declared no shortcut.
func loadDescriptor(target string) (*shortcutDescriptor, error) {
	dir := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		dir = filepath.Dir(target)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "appsetup.json"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var descriptor shortcutDescriptor
	if err := json.Unmarshal(raw, &descriptor); err != nil {
		return nil, err
	}
	return &descriptor, nil
}
