// Package filter maintains the filtered view of a line store.
package filter

import (
	"context"
	"regexp"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/five82/logglance/internal/linestore"
	"github.com/five82/logglance/internal/search"
)

// minChunk keeps tiny stores from being split across goroutines.
const minChunk = 4096

// Filter is a search plus an apply flag and the cache of matching sequence
// numbers. The cache is valid while the matcher it was built with is current
// and every stored line has been incorporated.
type Filter struct {
	mu sync.Mutex

	search *search.Search
	apply  bool

	cache   []uint64
	built   bool
	version uint64 // matcher version the cache was built with
	next    uint64 // first sequence number not yet incorporated

	recomputes int
}

// New returns a Filter with an empty search.
func New() *Filter {
	return &Filter{search: search.New(search.Spec{})}
}

// Search exposes the filter's search, shared with match highlighting.
func (f *Filter) Search() *search.Search {
	return f.search
}

// Set replaces the spec and apply flag. A compile error is returned and the
// cache is left untouched until a valid pattern arrives.
func (f *Filter) Set(spec search.Spec, apply bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apply = apply
	return f.search.Set(spec)
}

// Applied reports whether the view is currently filtered.
func (f *Filter) Applied() bool {
	return f.apply && !f.search.Spec().IsEmpty()
}

// Sync brings the cache up to date with store. New lines are filtered
// incrementally when the cache is valid; otherwise the whole store is
// rescanned in parallel.
func (f *Filter) Sync(store *linestore.Store) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.Applied() {
		f.reset()
		return
	}
	re := f.search.Matcher()
	if re == nil {
		// Inactive pattern: keep the last good result as is.
		return
	}

	if f.built && f.version == f.search.Version() {
		f.cache = append(f.cache, scan(re, store, max(f.next, store.First()), store.End())...)
	} else {
		f.cache = parallelScan(re, store)
		f.built = true
		f.version = f.search.Version()
		f.recomputes++
	}
	f.next = store.End()
	f.prune(store.First())
}

// Invalidate forces the next Sync to rebuild the cache from scratch.
func (f *Filter) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// Len returns the number of visible lines.
func (f *Filter) Len(store *linestore.Store) int {
	if f.cached() {
		return len(f.cache)
	}
	return store.Len()
}

// Line returns the i-th visible line and its sequence number.
func (f *Filter) Line(store *linestore.Store, i int) (string, uint64, bool) {
	if f.cached() {
		if i < 0 || i >= len(f.cache) {
			return "", 0, false
		}
		seq := f.cache[i]
		line, ok := store.At(seq)
		return line, seq, ok
	}
	if i < 0 || i >= store.Len() {
		return "", 0, false
	}
	return store.Index(i), store.First() + uint64(i), true
}

// View returns the visible lines in store order.
func (f *Filter) View(store *linestore.Store) []string {
	if !f.cached() {
		return store.Lines()
	}
	out := make([]string, 0, len(f.cache))
	for _, seq := range f.cache {
		if line, ok := store.At(seq); ok {
			out = append(out, line)
		}
	}
	return out
}

// Since returns the visible lines whose sequence number is >= seq.
func (f *Filter) Since(store *linestore.Store, seq uint64) []string {
	if !f.cached() {
		return store.Slice(seq, store.End())
	}
	lo, hi := 0, len(f.cache)
	for lo < hi {
		mid := (lo + hi) / 2
		if f.cache[mid] < seq {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	out := make([]string, 0, len(f.cache)-lo)
	for _, s := range f.cache[lo:] {
		if line, ok := store.At(s); ok {
			out = append(out, line)
		}
	}
	return out
}

// Recomputes counts full rebuilds, for diagnostics.
func (f *Filter) Recomputes() int {
	return f.recomputes
}

func (f *Filter) cached() bool {
	return f.Applied() && f.built
}

func (f *Filter) reset() {
	f.cache = nil
	f.built = false
	f.next = 0
}

func (f *Filter) prune(first uint64) {
	i := 0
	for i < len(f.cache) && f.cache[i] < first {
		i++
	}
	if i > 0 {
		f.cache = append(f.cache[:0], f.cache[i:]...)
	}
}

func scan(re *regexp.Regexp, store *linestore.Store, from, to uint64) []uint64 {
	var out []uint64
	for seq := from; seq < to; seq++ {
		line, ok := store.At(seq)
		if ok && re.MatchString(line) {
			out = append(out, seq)
		}
	}
	return out
}

// parallelScan filters the whole store, splitting it into contiguous chunks
// whose results are concatenated in store order.
func parallelScan(re *regexp.Regexp, store *linestore.Store) []uint64 {
	first, end := store.First(), store.End()
	total := int(end - first)
	workers := runtime.GOMAXPROCS(0)
	if total < minChunk*2 || workers < 2 {
		return scan(re, store, first, end)
	}
	chunk := (total + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	parts := make([][]uint64, (total+chunk-1)/chunk)
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i := range parts {
		from := first + uint64(i*chunk)
		to := min(from+uint64(chunk), end)
		g.Go(func() error {
			parts[i] = scan(re, store, from, to)
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]uint64, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
