// Package shimmer is the update pipeline's public entry point: Manager wires
// together fetch, plan, delta, installer and lock into the five calls spec.md
// §4.9 names (checkForUpdate, downloadReleases, applyReleases, fullUninstall,
// updateLocalManifest), each acquiring the machine-wide install lock for its
// own duration, in the manner IMQS-updater's updater.Updater wires its own
// SyncDir/Config collaborators together behind one top-level type.
package shimmer
