package source

import "fmt"

// Kind classifies ingestion failures.
type Kind int

const (
	// OpenFailure ends the source: the file could not be opened or probed.
	OpenFailure Kind = iota
	// TransientReadFailure aborts one read pass; reading resumes on the next
	// file event.
	TransientReadFailure
	// WatchFailure ends the source: change notifications are unavailable.
	WatchFailure
)

func (k Kind) String() string {
	switch k {
	case OpenFailure:
		return "open failure"
	case TransientReadFailure:
		return "read failure"
	case WatchFailure:
		return "watch failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Fatal reports whether the source stops after an error of this kind.
func (k Kind) Fatal() bool {
	return k != TransientReadFailure
}

// Error is an ingestion failure for one file.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
