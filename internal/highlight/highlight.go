// Package highlight computes per-line styling from row highlight rules and
// the active search. It never renders; callers turn the result into output.
package highlight

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logglance/internal/search"
)

// Default rule colors.
const (
	DefaultRuleBackground = lipgloss.Color("#006400")
	DefaultRuleForeground = lipgloss.Color("#90EE90")
	DefaultMatchColor     = lipgloss.Color("#FF0000")
)

// Style is a foreground/background pair. Empty colors mean "terminal default".
type Style struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
}

// IsZero reports whether the style changes nothing.
func (s Style) IsZero() bool {
	return s.Foreground == "" && s.Background == ""
}

// Chunk is a piece of a line. A nil Style means the line's default style.
type Chunk struct {
	Text  string
	Style *Style
}

// Line is a decoded line plus its derived styling.
type Line struct {
	Text    string
	Chunks  []Chunk
	Default Style
}

// RuleSpec is the persisted form of a Rule.
type RuleSpec struct {
	search.Spec
	Background string `toml:"bg"`
	Foreground string `toml:"fg"`
}

// Rule colors every line its search matches.
type Rule struct {
	Search     *search.Search
	Background lipgloss.Color
	Foreground lipgloss.Color
}

// NewRule compiles spec. A compile error is returned alongside a usable but
// inactive rule so it can be corrected in place.
func NewRule(spec RuleSpec) (*Rule, error) {
	bg, fg := lipgloss.Color(spec.Background), lipgloss.Color(spec.Foreground)
	if bg == "" {
		bg = DefaultRuleBackground
	}
	if fg == "" {
		fg = DefaultRuleForeground
	}
	s := &search.Search{}
	err := s.Set(spec.Spec)
	return &Rule{Search: s, Background: bg, Foreground: fg}, err
}

// Spec returns the persisted form of r.
func (r *Rule) Spec() RuleSpec {
	return RuleSpec{
		Spec:       r.Search.Spec(),
		Background: string(r.Background),
		Foreground: string(r.Foreground),
	}
}

// Engine styles lines.
type Engine struct {
	Rules []*Rule
	Match Style
}

// New returns an Engine with the default match style.
func New(rules ...*Rule) *Engine {
	return &Engine{Rules: rules, Match: Style{Foreground: DefaultMatchColor}}
}

// RowStyle returns the style of the first rule whose pattern matches text.
func (e *Engine) RowStyle(text string) (Style, bool) {
	for _, rule := range e.Rules {
		if rule == nil || rule.Search == nil || rule.Search.Spec().IsEmpty() {
			continue
		}
		re := rule.Search.Matcher()
		if re != nil && re.MatchString(text) {
			return Style{Foreground: rule.Foreground, Background: rule.Background}, true
		}
	}
	return Style{}, false
}

// Generate derives the styled Line for text. active is the search whose
// matches are marked, whether or not it is filtering.
func (e *Engine) Generate(text string, active *search.Search) Line {
	line := Line{Text: text}
	if style, ok := e.RowStyle(text); ok {
		line.Default = style
	}
	if re := active.Matcher(); re != nil {
		line.Chunks = e.segment(text, re.FindAllStringIndex(text, -1))
	}
	return line
}

func (e *Engine) segment(text string, spans [][]int) []Chunk {
	match := e.Match
	chunks := make([]Chunk, 0, 2*len(spans)+1)
	last := 0
	for _, span := range spans {
		start, end := span[0], span[1]
		if start == end {
			continue
		}
		if start > last {
			chunks = append(chunks, Chunk{Text: text[last:start]})
		}
		chunks = append(chunks, Chunk{Text: text[start:end], Style: &match})
		last = end
	}
	if last < len(text) || len(chunks) == 0 {
		chunks = append(chunks, Chunk{Text: text[last:]})
	}
	return chunks
}
