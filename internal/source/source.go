// Package source runs the background reader of one log file and reports its
// progress as events.
package source

import (
	"context"
	"io"
	"log"
	"path/filepath"

	"github.com/five82/logglance/internal/charset"
	"github.com/five82/logglance/internal/logtail"
)

const defaultEventBuffer = 64

// Restriction is the caller's answer to the size gate.
type Restriction int

const (
	// Undecided asks the caller when the file is oversized.
	Undecided Restriction = iota
	// Restricted reads only the tail window and caps rows.
	Restricted
	// Unrestricted reads the whole file.
	Unrestricted
)

// RestrictionOf converts a yes/no answer.
func RestrictionOf(restrict bool) Restriction {
	if restrict {
		return Restricted
	}
	return Unrestricted
}

// Options configure a Source.
type Options struct {
	// Encoding overrides detection when set.
	Encoding    *charset.Encoding
	Restriction Restriction
	MaxFileSize int64
	TailSlack   int64
	ProbeBytes  int
	// MaxRows caps a batch in restricted mode.
	MaxRows    int
	Reassemble bool
	Detector   charset.Detector
	Logger     *log.Logger
	// EventBuffer sizes the event channel.
	EventBuffer int
}

func (o Options) withDefaults() Options {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = logtail.DefaultMaxFileSize
	}
	if o.TailSlack <= 0 {
		o.TailSlack = logtail.DefaultTailSlack
	}
	if o.ProbeBytes <= 0 {
		o.ProbeBytes = charset.DefaultProbeBytes
	}
	if o.MaxRows <= 0 {
		o.MaxRows = logtail.DefaultMaxRows
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = defaultEventBuffer
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o
}

// Source is the caller's handle on one watched file. Exactly one background
// goroutine runs per Source; its methods must be called from a single
// goroutine, the one draining Events.
type Source struct {
	path   string
	opts   Options
	parent context.Context

	cancel context.CancelFunc
	done   chan struct{}
	events <-chan Event
	task   *task
}

// Open starts reading path in the background. Failures, including a missing
// file, are reported as events.
func Open(ctx context.Context, path string, opts Options) *Source {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	s := &Source{path: path, opts: opts.withDefaults(), parent: ctx}
	s.start()
	return s
}

// Path returns the absolute path of the watched file.
func (s *Source) Path() string {
	return s.path
}

// Events returns the channel of the current background goroutine. It is
// closed when that goroutine ends. Reopen replaces it.
func (s *Source) Events() <-chan Event {
	return s.events
}

// Done is closed when the current background goroutine has exited.
func (s *Source) Done() <-chan struct{} {
	return s.done
}

// State reports where the current background goroutine is in its watch
// loop. Terminated means it gave up after a fatal error.
func (s *Source) State() State {
	return s.task.currentState()
}

// Reopen cancels the running goroutine, waits for it and starts over with
// the given encoding override and restriction.
func (s *Source) Reopen(enc *charset.Encoding, r Restriction) {
	s.stop()
	s.opts.Encoding = enc
	s.opts.Restriction = r
	s.start()
}

// Close stops the background goroutine. No event is sent after Close
// returns.
func (s *Source) Close() error {
	s.stop()
	return nil
}

func (s *Source) start() {
	ctx, cancel := context.WithCancel(s.parent)
	events := make(chan Event, s.opts.EventBuffer)
	done := make(chan struct{})
	t := &task{path: s.path, opts: s.opts, events: events, log: s.opts.Logger}

	s.cancel = cancel
	s.done = done
	s.events = events
	s.task = t

	go func() {
		defer close(done)
		t.run(ctx)
	}()
}

func (s *Source) stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}
