package state

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"

	"github.com/five82/logglance/internal/charset"
	"github.com/five82/logglance/internal/config"
	"github.com/five82/logglance/internal/filter"
	"github.com/five82/logglance/internal/highlight"
	"github.com/five82/logglance/internal/linestore"
	"github.com/five82/logglance/internal/logtail"
	"github.com/five82/logglance/internal/search"
	"github.com/five82/logglance/internal/source"
)

// maxDrainEvents bounds the work done by one Drain so a busy file cannot
// starve the caller.
const maxDrainEvents = 1024

// ErrNoGateRequest is returned when answering a size gate nobody asked.
var ErrNoGateRequest = errors.New("no size gate request pending")

// Options configure a LogPane.
type Options struct {
	Source     source.Options
	Restrict   config.Restrict
	OnRecreate config.OnRecreate
	Logger     *log.Logger
}

// LogPane is the consumer side of one Source. It owns the line store and
// the filter cache and mutates them only in Drain and the setters. A pane
// must be used from a single goroutine.
type LogPane struct {
	opts Options
	log  *log.Logger

	src      *source.Source
	store    *linestore.Store
	filter   *filter.Filter
	engine   *highlight.Engine
	override *charset.Encoding

	gate     GateState
	pending  *source.SizeGateRequest
	gateSize int64

	encoding charset.Encoding
	offset   int64
	errs     []error
	done     bool
}

// Open starts reading path and returns its pane.
func Open(ctx context.Context, path string, opts Options) *LogPane {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Source.Logger == nil {
		opts.Source.Logger = opts.Logger
	}
	p := &LogPane{
		opts:     opts,
		log:      opts.Logger,
		store:    linestore.New(0),
		filter:   filter.New(),
		engine:   highlight.New(),
		override: opts.Source.Encoding,
	}
	p.src = source.Open(ctx, path, opts.Source)
	return p
}

// Title is the file name.
func (p *LogPane) Title() string {
	return filepath.Base(p.src.Path())
}

// Path is the absolute path of the file.
func (p *LogPane) Path() string {
	return p.src.Path()
}

// Drain applies the events that are ready without blocking and brings the
// filter cache up to date. It reports whether anything changed.
func (p *LogPane) Drain() bool {
	changed := false
	for range maxDrainEvents {
		if p.done {
			break
		}
		select {
		case ev, ok := <-p.src.Events():
			if !ok {
				p.done = true
				changed = true
				continue
			}
			p.apply(ev)
			changed = true
		default:
			p.filter.Sync(p.store)
			return changed
		}
	}
	p.filter.Sync(p.store)
	return changed
}

func (p *LogPane) apply(ev source.Event) {
	switch ev := ev.(type) {
	case source.DataAppended:
		p.store.Append(ev.Lines...)
		p.offset = ev.Offset
	case source.ReadError:
		p.log.Printf("%v", ev.Err)
		p.errs = append(p.errs, ev.Err)
	case source.SizeGateRequest:
		p.gate = GateAwaiting
		p.gateSize = ev.Size
		p.pending = &ev
		switch p.opts.Restrict {
		case config.RestrictAlways:
			ev.Respond(true)
		case config.RestrictNever:
			ev.Respond(false)
		}
	case source.RestrictionDecided:
		p.pending = nil
		if ev.Restricted {
			p.gate = GateRestricted
			p.store.SetLimit(p.maxRows())
		} else {
			p.gate = GateUnrestricted
			p.store.SetLimit(0)
		}
	case source.EncodingResolved:
		p.encoding = ev.Encoding
	case source.FileRecreated:
		p.log.Printf("%s was recreated", p.src.Path())
		if p.opts.OnRecreate == config.RecreateClear {
			p.store.Clear()
			p.filter.Invalidate()
		}
	}
}

func (p *LogPane) maxRows() int {
	if p.opts.Source.MaxRows > 0 {
		return p.opts.Source.MaxRows
	}
	return logtail.DefaultMaxRows
}

// RespondToSizeGate answers the pending size gate request.
func (p *LogPane) RespondToSizeGate(restrict bool) error {
	if p.pending == nil {
		return ErrNoGateRequest
	}
	p.pending.Respond(restrict)
	p.pending = nil
	return nil
}

// AwaitingGate reports a pending size gate request and the file size.
func (p *LogPane) AwaitingGate() (int64, bool) {
	return p.gateSize, p.pending != nil
}

// Gate returns the size gate state.
func (p *LogPane) Gate() GateState {
	return p.gate
}

// SetFilter replaces the filter. On a compile error the previous result
// stays visible.
func (p *LogPane) SetFilter(spec search.Spec, apply bool) error {
	err := p.filter.Set(spec, apply)
	p.filter.Sync(p.store)
	return err
}

// Filter returns the current filter spec and apply flag.
func (p *LogPane) Filter() (search.Spec, bool) {
	return p.filter.Search().Spec(), p.filter.Applied()
}

// FilterError is the compile error of the current filter pattern.
func (p *LogPane) FilterError() error {
	return p.filter.Search().Err()
}

// SetHighlightRules replaces the highlight rules. Rules that fail to compile
// are kept but never match; their errors are joined.
func (p *LogPane) SetHighlightRules(specs []highlight.RuleSpec) error {
	rules := make([]*highlight.Rule, 0, len(specs))
	var errs []error
	for _, spec := range specs {
		rule, err := highlight.NewRule(spec)
		if err != nil {
			errs = append(errs, err)
		}
		rules = append(rules, rule)
	}
	p.engine = highlight.New(rules...)
	return errors.Join(errs...)
}

// HighlightRules returns the current rules in their persisted form.
func (p *LogPane) HighlightRules() []highlight.RuleSpec {
	out := make([]highlight.RuleSpec, 0, len(p.engine.Rules))
	for _, rule := range p.engine.Rules {
		out = append(out, rule.Spec())
	}
	return out
}

// SetEncoding rereads the file with enc. The restriction already decided is
// kept.
func (p *LogPane) SetEncoding(enc charset.Encoding) {
	p.override = &enc
	p.restart()
}

// EncodingOverride returns the encoding chosen by the user, nil when the
// encoding is detected.
func (p *LogPane) EncodingOverride() *charset.Encoding {
	return p.override
}

// Reload rereads the file from scratch with the same settings.
func (p *LogPane) Reload() {
	p.restart()
}

func (p *LogPane) restart() {
	restriction := source.Undecided
	switch p.gate {
	case GateRestricted:
		restriction = source.Restricted
	case GateUnrestricted:
		restriction = source.Unrestricted
	default:
		p.gate = GateUndecided
	}
	p.src.Reopen(p.override, restriction)
	p.pending = nil
	p.done = false
	p.offset = 0
	p.store.Clear()
	p.filter.Invalidate()
}

// Close stops the source.
func (p *LogPane) Close() error {
	p.pending = nil
	return p.src.Close()
}

// Len is the number of visible lines.
func (p *LogPane) Len() int {
	return p.filter.Len(p.store)
}

// Line returns the i-th visible line with its styling.
func (p *LogPane) Line(i int) (highlight.Line, bool) {
	text, _, ok := p.filter.Line(p.store, i)
	if !ok {
		return highlight.Line{}, false
	}
	return p.engine.Generate(text, p.filter.Search()), true
}

// Lines returns the visible lines in [from, to) with their styling.
func (p *LogPane) Lines(from, to int) []highlight.Line {
	from = max(from, 0)
	to = min(to, p.Len())
	if from >= to {
		return nil
	}
	out := make([]highlight.Line, 0, to-from)
	for i := from; i < to; i++ {
		if line, ok := p.Line(i); ok {
			out = append(out, line)
		}
	}
	return out
}

// View returns every visible line as plain text.
func (p *LogPane) View() []string {
	return p.filter.View(p.store)
}

// Since returns the visible lines whose sequence number is >= seq and the
// sequence number to pass next time.
func (p *LogPane) Since(seq uint64) ([]string, uint64) {
	return p.filter.Since(p.store, seq), p.store.End()
}

// Status is a point in time summary of a pane.
type Status struct {
	Path       string
	Encoding   charset.Encoding
	Gate       GateState
	Total      int
	Visible    int
	Offset     int64
	Errors     []error
	Done       bool
	Watch      source.State
	FilterErr  error
	Recomputes int
}

// Loading reports an empty pane that is still expecting data.
func (s Status) Loading() bool {
	return s.Total == 0 && len(s.Errors) == 0 && !s.Done
}

// LastError returns the most recent error, if any.
func (s Status) LastError() error {
	if len(s.Errors) == 0 {
		return nil
	}
	return s.Errors[len(s.Errors)-1]
}

// Status returns a copy of the pane's state.
func (p *LogPane) Status() Status {
	errs := make([]error, len(p.errs))
	copy(errs, p.errs)
	return Status{
		Path:       p.src.Path(),
		Encoding:   p.encoding,
		Gate:       p.gate,
		Total:      p.store.Len(),
		Visible:    p.Len(),
		Offset:     p.offset,
		Errors:     errs,
		Done:       p.done,
		Watch:      p.src.State(),
		FilterErr:  p.filter.Search().Err(),
		Recomputes: p.filter.Recomputes(),
	}
}

// ClearErrors empties the error list.
func (p *LogPane) ClearErrors() {
	p.errs = nil
}
