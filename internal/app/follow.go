package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/five82/logglance/internal/state"
)

const defaultPollInterval = 200 * time.Millisecond

// Follow drains the panes at a fixed cadence and writes every newly visible
// line to w. Lines are prefixed with the file name when more than one pane
// is followed. It returns when ctx is cancelled or every source has ended.
func Follow(ctx context.Context, panes []*state.LogPane, interval time.Duration, w io.Writer) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cursors := make([]uint64, len(panes))
	reported := make([]int, len(panes))
	prefix := len(panes) > 1

	for {
		done := 0
		for i, p := range panes {
			if err := emit(p, &cursors[i], &reported[i], prefix, w); err != nil {
				return err
			}
			if p.Status().Done {
				done++
			}
		}
		if done == len(panes) {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func emit(p *state.LogPane, cursor *uint64, reported *int, prefix bool, w io.Writer) error {
	p.Drain()

	st := p.Status()
	for _, err := range st.Errors[min(*reported, len(st.Errors)):] {
		if _, werr := fmt.Fprintf(w, "error: %v\n", err); werr != nil {
			return fmt.Errorf("write output: %w", werr)
		}
	}
	*reported = len(st.Errors)

	lines, next := p.Since(*cursor)
	*cursor = next
	for _, line := range lines {
		var err error
		if prefix {
			_, err = fmt.Fprintf(w, "%s: %s\n", p.Title(), line)
		} else {
			_, err = fmt.Fprintln(w, line)
		}
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
