package state

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// GateState tracks the size gate of a pane.
type GateState int

const (
	// GateUndecided means no restriction has been reported yet.
	GateUndecided GateState = iota
	// GateAwaiting means the source is blocked on RespondToSizeGate.
	GateAwaiting
	// GateRestricted means only the tail is read and rows are capped.
	GateRestricted
	// GateUnrestricted means the whole file is read.
	GateUnrestricted
)

func (g GateState) String() string {
	switch g {
	case GateUndecided:
		return "undecided"
	case GateAwaiting:
		return "awaiting decision"
	case GateRestricted:
		return "restricted"
	case GateUnrestricted:
		return "unrestricted"
	default:
		return fmt.Sprintf("gate(%d)", int(g))
	}
}

// GatePrompt is the question shown for an oversized file.
func GatePrompt(size, threshold int64, maxRows int) string {
	return fmt.Sprintf(
		"This file is %s, more than %s. Open it in restricted mode? "+
			"Only the last %s and at most %s lines are kept.",
		humanize.IBytes(uint64(size)),
		humanize.IBytes(uint64(threshold)),
		humanize.IBytes(uint64(threshold)),
		humanize.Comma(int64(maxRows)),
	)
}
