package source

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// State is the reconciler state of a source's background goroutine.
type State int

const (
	// Idle waits for the next filesystem event.
	Idle State = iota
	// Reopening handles the watched file being created again.
	Reopening
	// Appending reads data appended since the last pass.
	Appending
	// Terminated means the watch failed; no more events follow.
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reopening:
		return "reopening"
	case Appending:
		return "appending"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Transition maps a directory event to the state it moves the watcher into.
// Events for other files, removals and renames leave the watcher Idle; a
// rotation is picked up by the Create that follows.
func Transition(ev fsnotify.Event, target string) State {
	if filepath.Base(ev.Name) != filepath.Base(target) {
		return Idle
	}
	switch {
	case ev.Has(fsnotify.Create):
		return Reopening
	case ev.Has(fsnotify.Write):
		return Appending
	default:
		return Idle
	}
}

// metadataOnly reports an attribute change on the target. On some platforms
// this is the only trace of the file being deleted in place.
func metadataOnly(ev fsnotify.Event, target string) bool {
	return filepath.Base(ev.Name) == filepath.Base(target) &&
		ev.Op == fsnotify.Chmod
}
