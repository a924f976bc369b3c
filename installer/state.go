package installer

// State names one step of the install state machine (spec.md §4.8).
type State int

const (
	Prepare State = iota
	CleanDead
	ComposeOrPick
	Extract
	PostInstall
	RewriteManifestState
	Done
)

func (this State) String() string {
	switch this {
	case Prepare:
		return "PREPARE"
	case CleanDead:
		return "CLEAN_DEAD"
	case ComposeOrPick:
		return "COMPOSE_OR_PICK"
	case Extract:
		return "EXTRACT"
	case PostInstall:
		return "POST_INSTALL"
	case RewriteManifestState:
		return "REWRITE_MANIFEST"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}
