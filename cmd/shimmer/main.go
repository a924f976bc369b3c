package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jeffora/shimmer"
	"github.com/jeffora/shimmer/contracts"
	"github.com/jeffora/shimmer/fs"
	"github.com/jeffora/shimmer/installer"
)

const usageText = `commands:
  buildmanifest       rewrite packages/RELEASES, keeping only the current full package
  check               check for an update and print the plan, if any
  download            check for an update and download its releases
  apply               check for an update, download it, and install it
  uninstall           run AppSetup's uninstall hook and remove the root
  run                 loop forever, checking and applying updates on an interval
`

func main() {
	flagConfig := flag.String("config", "", "JSON config file (must be specified)")

	flag.Usage = func() {
		os.Stderr.WriteString(usageText)
		fmt.Fprintf(os.Stderr, "options:\n")
		flag.PrintDefaults()
	}

	helpDie := func(message string) {
		if message != "" {
			fmt.Fprintln(os.Stderr, message)
		} else {
			flag.Usage()
		}
		os.Exit(1)
	}
	errDie := func(err error) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	_ = flag.CommandLine.Parse(os.Args[1:])
	command := flag.Arg(0)

	if command == "buildmanifest" {
		if len(flag.Args()) != 2 {
			helpDie("buildmanifest requires a directory argument")
		}
		root := flag.Arg(1)
		manifest, err := installer.RewriteManifest(fs.NewDiskFileSystem(), root)
		if err != nil {
			errDie(err)
		}
		fmt.Printf("wrote %d entries to %s/packages/RELEASES\n", len(manifest.Entries), root)
		return
	}

	if command == "" {
		helpDie("")
	}
	if *flagConfig == "" {
		helpDie("no config specified")
	}

	config := shimmer.NewConfig()
	if err := config.LoadFile(*flagConfig); err != nil {
		errDie(err)
	}
	manager := shimmer.NewManager(config)
	if err := manager.Initialize(); err != nil {
		errDie(err)
	}

	ctx := context.Background()
	progress := contracts.ProgressFunc(func(percent int) { fmt.Printf("\r%3d%%", percent) })

	switch command {
	case "check":
		info, err := manager.CheckForUpdate(ctx, progress)
		if err != nil {
			errDie(err)
		}
		fmt.Println()
		if info == nil {
			fmt.Println("already up to date")
			return
		}
		fmt.Printf("update available: %d release(s) to apply, future version %s\n", len(info.ReleasesToApply), info.FutureReleaseEntry.Version)

	case "download":
		info, err := manager.CheckForUpdate(ctx, progress)
		if err != nil {
			errDie(err)
		}
		if info == nil {
			fmt.Println("\nalready up to date")
			return
		}
		if err := manager.DownloadReleases(ctx, info.ReleasesToApply, progress); err != nil {
			errDie(err)
		}
		fmt.Println("\ndownload complete")

	case "apply":
		info, err := manager.CheckForUpdate(ctx, progress)
		if err != nil {
			errDie(err)
		}
		if info == nil {
			fmt.Println("\nalready up to date")
			return
		}
		if err := manager.DownloadReleases(ctx, info.ReleasesToApply, progress); err != nil {
			errDie(err)
		}
		launchPaths, err := manager.ApplyReleases(*info, progress)
		if err != nil {
			errDie(err)
		}
		fmt.Printf("\ninstalled %s, %d launch path(s) reported\n", info.FutureReleaseEntry.Version, len(launchPaths))

	case "uninstall":
		if err := manager.FullUninstall(); err != nil {
			errDie(err)
		}
		fmt.Println("uninstalled")

	case "run":
		manager.Run(ctx, progress)

	default:
		helpDie("unrecognized command: " + command)
	}
}
