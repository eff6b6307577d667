package logtail

import (
	"fmt"
	"io"
)

const (
	// DefaultMaxFileSize is the size above which a file is only opened in
	// full after the caller agrees.
	DefaultMaxFileSize int64 = 4 << 30
	// DefaultMaxRows caps the rows kept in restricted mode.
	DefaultMaxRows = 120_000_000
	// DefaultTailSlack is read in addition to the tail window so a newline
	// right at the boundary is not skipped.
	DefaultTailSlack int64 = 512
)

// Plan decides where reading starts.
type Plan struct {
	Size       int64
	Threshold  int64
	Slack      int64
	Restricted bool
	// Unit is the code unit width of the encoding. The tail start is rounded
	// down to a multiple of it.
	Unit int64
}

// Oversized reports whether the file exceeds the threshold.
func (p Plan) Oversized() bool {
	return p.Threshold > 0 && p.Size > p.Threshold
}

// Tail reports whether only the tail window is read.
func (p Plan) Tail() bool {
	return p.Restricted && p.Oversized()
}

// Start returns the byte offset the reader seeks to. When Tail is true the
// record at that offset is usually cut and must be skipped.
func (p Plan) Start() int64 {
	if !p.Tail() {
		return 0
	}
	slack := p.Slack
	if slack < 0 {
		slack = 0
	}
	start := p.Size - (p.Threshold + slack)
	if start < 0 {
		return 0
	}
	if p.Unit > 1 {
		start -= start % p.Unit
	}
	return start
}

// Open positions rs according to p and returns a Reader at that cursor. In
// tail mode everything up to and including the first newline is discarded.
func Open(rs io.ReadSeeker, p Plan, opts Options) (*Reader, error) {
	if p.Unit == 0 {
		p.Unit = int64(opts.Encoding.UnitSize())
	}
	start := p.Start()
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to %d: %w", start, err)
	}
	r := NewReader(rs, start, opts)
	if p.Tail() && start > 0 {
		skipped, err := r.SkipPartialLine()
		if err != nil {
			return nil, fmt.Errorf("skip partial line: %w", err)
		}
		r.logf("tail mode: started at %d, skipped %d bytes to the next line", start, skipped)
	}
	return r, nil
}
