package source

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"

	"github.com/five82/logglance/internal/charset"
	"github.com/five82/logglance/internal/logtail"
)

var errWatchClosed = errors.New("watch channel closed")

// task owns the file handle, the reader and the watcher of one Source.
type task struct {
	path   string
	opts   Options
	events chan<- Event
	log    *log.Logger

	state      atomic.Int32
	restricted bool
	enc        charset.Encoding
	file       *os.File
	reader     *logtail.Reader
}

func (t *task) run(ctx context.Context) {
	defer close(t.events)
	defer t.closeFile()

	info, err := os.Stat(t.path)
	if err != nil {
		t.fail(ctx, OpenFailure, fmt.Errorf("unable to open the specified file: %w", err))
		return
	}

	restricted, ok := t.decide(ctx, info.Size())
	if !ok {
		return
	}
	t.restricted = restricted
	if !t.send(ctx, RestrictionDecided{Restricted: restricted}) {
		return
	}

	if t.opts.Encoding != nil {
		t.enc = *t.opts.Encoding
	}
	if err := t.open(); err != nil {
		t.fail(ctx, OpenFailure, err)
		return
	}
	if !t.send(ctx, EncodingResolved{Encoding: t.enc}) {
		return
	}

	// The watch is in place before the first pass so nothing written during
	// it is missed.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.fail(ctx, WatchFailure, fmt.Errorf("create watcher: %w", err))
		return
	}
	defer watcher.Close()
	dir := filepath.Dir(t.path)
	if err := watcher.Add(dir); err != nil {
		t.fail(ctx, WatchFailure, fmt.Errorf("watch %s: %w", dir, err))
		return
	}

	if !t.readPass(ctx) {
		return
	}

	for {
		t.setState(Idle)
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				t.fail(ctx, WatchFailure, errWatchClosed)
				return
			}
			if !t.handle(ctx, ev) {
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				err = errWatchClosed
			}
			t.fail(ctx, WatchFailure, err)
			return
		}
	}
}

// decide resolves the size gate. Files within the threshold are opened
// restricted without asking, which only caps the row count.
func (t *task) decide(ctx context.Context, size int64) (bool, bool) {
	switch t.opts.Restriction {
	case Restricted:
		return true, true
	case Unrestricted:
		return false, true
	}
	plan := logtail.Plan{Size: size, Threshold: t.opts.MaxFileSize}
	if !plan.Oversized() {
		return true, true
	}

	t.log.Printf("%s is %s, above %s: asking for restricted mode", t.path,
		humanize.IBytes(uint64(size)), humanize.IBytes(uint64(t.opts.MaxFileSize)))
	req := newSizeGateRequest(size)
	if !t.send(ctx, req) {
		return false, false
	}
	select {
	case restrict := <-req.reply:
		return restrict, true
	case <-ctx.Done():
		return false, false
	}
}

// open (re)opens the file, resolves the encoding once and positions the
// reader according to the tail plan.
func (t *task) open() error {
	t.closeFile()

	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", t.path, err)
	}

	resolver := charset.Resolver{ProbeBytes: t.opts.ProbeBytes, Detector: t.opts.Detector, Logger: t.log}
	var override *charset.Encoding
	if !t.enc.IsZero() {
		override = &t.enc
	}
	enc, err := resolver.Resolve(f, override)
	if err != nil {
		f.Close()
		return fmt.Errorf("resolve encoding: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat %s: %w", t.path, err)
	}

	maxRows := 0
	if t.restricted {
		maxRows = t.opts.MaxRows
	}
	plan := logtail.Plan{
		Size:       info.Size(),
		Threshold:  t.opts.MaxFileSize,
		Slack:      t.opts.TailSlack,
		Restricted: t.restricted,
	}
	reader, err := logtail.Open(f, plan, logtail.Options{
		Encoding:   enc,
		MaxRows:    maxRows,
		Reassemble: t.opts.Reassemble,
		Logger:     t.log,
	})
	if err != nil {
		f.Close()
		return err
	}

	t.enc = enc
	t.file = f
	t.reader = reader
	return nil
}

func (t *task) handle(ctx context.Context, ev fsnotify.Event) bool {
	if metadataOnly(ev, t.path) {
		// Possibly deleted in place; nothing to recover from here.
		t.log.Printf("%s: metadata changed", t.path)
		return true
	}

	switch Transition(ev, t.path) {
	case Reopening:
		t.setState(Reopening)
		return t.reopen(ctx)
	case Appending:
		t.setState(Appending)
		if t.reader == nil {
			return true
		}
		return t.readPass(ctx)
	default:
		return true
	}
}

// reopen switches to a recreated file, keeping encoding and restriction.
func (t *task) reopen(ctx context.Context) bool {
	if t.reader != nil {
		if line, ok := t.reader.Flush(); ok {
			if !t.send(ctx, DataAppended{Lines: []string{line}, Offset: t.reader.Offset()}) {
				return false
			}
		}
	}
	if err := t.open(); err != nil {
		t.closeFile()
		return t.send(ctx, ReadError{Err: &Error{Kind: TransientReadFailure, Path: t.path, Err: err}})
	}
	if !t.send(ctx, FileRecreated{}) {
		return false
	}
	return t.readPass(ctx)
}

// readPass emits whatever is available past the cursor.
func (t *task) readPass(ctx context.Context) bool {
	lines, err := t.reader.ReadBatch()
	if len(lines) > 0 {
		if !t.send(ctx, DataAppended{Lines: lines, Offset: t.reader.Offset()}) {
			return false
		}
	}
	if err != nil {
		return t.send(ctx, ReadError{Err: &Error{Kind: TransientReadFailure, Path: t.path, Err: err}})
	}
	return true
}

// send delivers ev unless the task was cancelled. Once cancelled it never
// sends again.
func (t *task) send(ctx context.Context, ev Event) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case t.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (t *task) fail(ctx context.Context, kind Kind, err error) {
	if kind.Fatal() {
		t.setState(Terminated)
	}
	t.send(ctx, ReadError{Err: &Error{Kind: kind, Path: t.path, Err: err}})
}

func (t *task) setState(s State) {
	t.state.Store(int32(s))
}

func (t *task) currentState() State {
	return State(t.state.Load())
}

func (t *task) closeFile() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
	t.reader = nil
}
