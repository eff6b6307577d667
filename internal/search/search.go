// Package search compiles user supplied patterns into matchers shared by the
// filter and highlight layers.
package search

import (
	"fmt"
	"regexp"
)

// Spec is the textual form of a search as entered by the user.
type Spec struct {
	Pattern         string `toml:"pattern"`
	Regex           bool   `toml:"regex"`
	CaseInsensitive bool   `toml:"case_insensitive"`
}

// IsEmpty reports whether there is nothing to search for.
func (s Spec) IsEmpty() bool {
	return s.Pattern == ""
}

// CompileError reports a pattern that could not be compiled.
type CompileError struct {
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid regex supplied: %v", e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Compile builds an unanchored matcher for spec. Literal patterns have every
// metacharacter escaped first.
func Compile(spec Spec) (*regexp.Regexp, error) {
	pattern := spec.Pattern
	if !spec.Regex {
		pattern = regexp.QuoteMeta(pattern)
	}
	if spec.CaseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: spec.Pattern, Err: err}
	}
	return re, nil
}

// Search pairs a Spec with its lazily compiled matcher. The matcher is rebuilt
// only when the spec changes; Version increases every time the matcher is
// replaced so dependants can tell whether their derived data is stale.
type Search struct {
	spec     Spec
	compiled Spec
	matcher  *regexp.Regexp
	err      error
	built    bool
	version  uint64
}

// New returns a Search for spec with the matcher already compiled.
func New(spec Spec) *Search {
	s := &Search{}
	s.Set(spec)
	return s
}

// Spec returns the current textual fields.
func (s *Search) Spec() Spec {
	return s.spec
}

// Set replaces the spec and recompiles if any field changed. It returns the
// compile error, if any; on error the matcher becomes absent while the spec
// fields are kept.
func (s *Search) Set(spec Spec) error {
	s.spec = spec
	return s.ensure()
}

// Matcher returns the compiled matcher, or nil when the spec is empty or
// failed to compile.
func (s *Search) Matcher() *regexp.Regexp {
	if s == nil {
		return nil
	}
	_ = s.ensure()
	return s.matcher
}

// Err returns the last compile error.
func (s *Search) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// Version identifies the current matcher.
func (s *Search) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Active reports whether the search has a usable matcher.
func (s *Search) Active() bool {
	return s.Matcher() != nil
}

func (s *Search) ensure() error {
	if s.built && s.compiled == s.spec {
		return s.err
	}
	s.built = true
	s.compiled = s.spec
	s.version++
	if s.spec.IsEmpty() {
		s.matcher, s.err = nil, nil
		return nil
	}
	s.matcher, s.err = Compile(s.spec)
	return s.err
}
