package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logglance/internal/highlight"
	"github.com/five82/logglance/internal/prefs"
	"github.com/five82/logglance/internal/search"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch m.mode {
	case modeFilter, modeHighlight:
		return m.handleInputKey(msg)
	case modeEncoding:
		return m.handleEncodingKey(msg)
	case modeErrors:
		return m.handleErrorsKey(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// A pending size gate takes every other key.
	if p := m.activePane(); p != nil {
		if _, awaiting := p.AwaitingGate(); awaiting {
			switch {
			case key.Matches(msg, m.keys.GateYes):
				m.setMessage(p.RespondToSizeGate(true))
			case key.Matches(msg, m.keys.GateNo):
				m.setMessage(p.RespondToSizeGate(false))
			}
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, m.prefs)
		}

	case key.Matches(msg, m.keys.NextPane):
		if len(m.panes) > 0 {
			m.active = (m.active + 1) % len(m.panes)
		}

	case key.Matches(msg, m.keys.PrevPane):
		if len(m.panes) > 0 {
			m.active = (m.active + len(m.panes) - 1) % len(m.panes)
		}

	case key.Matches(msg, m.keys.Filter):
		spec, _ := m.currentFilter()
		m.openInput(modeFilter, "Filter", spec.Pattern)

	case key.Matches(msg, m.keys.AddHighlight):
		m.openInput(modeHighlight, "Highlight", "")

	case key.Matches(msg, m.keys.ToggleApply):
		spec, applied := m.currentFilter()
		m.applyFilter(spec, !applied)

	case key.Matches(msg, m.keys.ToggleRegex):
		spec, applied := m.currentFilter()
		spec.Regex = !spec.Regex
		m.applyFilter(spec, applied)

	case key.Matches(msg, m.keys.ToggleCase):
		spec, applied := m.currentFilter()
		spec.CaseInsensitive = !spec.CaseInsensitive
		m.applyFilter(spec, applied)

	case key.Matches(msg, m.keys.ClearHighlights):
		if p := m.activePane(); p != nil {
			m.setMessage(p.SetHighlightRules(nil))
		}

	case key.Matches(msg, m.keys.Encoding):
		m.openEncodingMenu()

	case key.Matches(msg, m.keys.Reload):
		if p := m.activePane(); p != nil {
			p.Reload()
			m.views[m.active] = paneView{follow: true}
			m.message = "Reloading " + p.Title()
		}

	case key.Matches(msg, m.keys.Errors):
		m.mode = modeErrors
		m.refreshErrors()

	default:
		m.handleScrollKey(msg)
	}
	return m, nil
}

func (m *Model) currentFilter() (search.Spec, bool) {
	p := m.activePane()
	if p == nil {
		return search.Spec{}, false
	}
	return p.Filter()
}

func (m *Model) applyFilter(spec search.Spec, apply bool) {
	p := m.activePane()
	if p == nil {
		return
	}
	m.setMessage(p.SetFilter(spec, apply))
	m.clampScroll()
}

func (m *Model) openInput(mode inputMode, prompt, value string) {
	if m.activePane() == nil {
		return
	}
	m.mode = mode
	m.input.Prompt = prompt + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
}

// handleInputKey edits the filter or a new highlight pattern.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		value := m.input.Value()
		spec, applied := m.currentFilter()
		switch m.mode {
		case modeFilter:
			spec.Pattern = value
			m.applyFilter(spec, applied || value != "")
		case modeHighlight:
			m.addHighlight(search.Spec{
				Pattern:         value,
				Regex:           spec.Regex,
				CaseInsensitive: spec.CaseInsensitive,
			})
		}
		m.closeInput()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// addHighlight appends a rule colored from the theme palette.
func (m *Model) addHighlight(spec search.Spec) {
	p := m.activePane()
	if p == nil || spec.IsEmpty() {
		return
	}
	rule := highlight.RuleSpec{Spec: spec, Foreground: m.theme.Background}
	if colors := m.theme.HighlightColors; len(colors) > 0 {
		rule.Background = colors[m.nextColorIdx%len(colors)]
		m.nextColorIdx++
	}
	m.setMessage(p.SetHighlightRules(append(p.HighlightRules(), rule)))
}

func (m *Model) openEncodingMenu() {
	p := m.activePane()
	if p == nil {
		return
	}
	m.mode = modeEncoding
	current := p.Status().Encoding
	m.encodingIdx = 0
	for i, enc := range m.encodings {
		if enc.Equal(current) {
			m.encodingIdx = i
			break
		}
	}
}

func (m Model) handleEncodingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.encodingIdx = max(m.encodingIdx-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.encodingIdx = min(m.encodingIdx+1, len(m.encodings)-1)
	case key.Matches(msg, m.keys.Confirm):
		if p := m.activePane(); p != nil && m.encodingIdx < len(m.encodings) {
			enc := m.encodings[m.encodingIdx]
			p.SetEncoding(enc)
			m.views[m.active] = paneView{follow: true}
			m.message = fmt.Sprintf("Reading %s as %s", p.Title(), enc.Name())
		}
		m.mode = modeNormal
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Encoding):
		m.mode = modeNormal
	}
	return m, nil
}

func (m Model) handleErrorsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Errors):
		m.mode = modeNormal
		return m, nil
	case key.Matches(msg, m.keys.ClearError):
		if p := m.activePane(); p != nil {
			p.ClearErrors()
		}
		m.refreshErrors()
		return m, nil
	}
	var cmd tea.Cmd
	m.errorsView, cmd = m.errorsView.Update(msg)
	return m, cmd
}

// handleScrollKey moves the view of the active pane.
func (m *Model) handleScrollKey(msg tea.KeyMsg) {
	if m.activePane() == nil {
		return
	}
	v := &m.views[m.active]
	page := max(m.bodyHeight(), 1)
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		v.follow = !v.follow
	case key.Matches(msg, m.keys.Up):
		v.top--
		v.follow = false
	case key.Matches(msg, m.keys.Down):
		v.top++
	case key.Matches(msg, m.keys.PageUp):
		v.top -= page
		v.follow = false
	case key.Matches(msg, m.keys.PageDown):
		v.top += page
	case key.Matches(msg, m.keys.HalfPageUp):
		v.top -= page / 2
		v.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		v.top += page / 2
	case key.Matches(msg, m.keys.Top):
		v.top = 0
		v.follow = false
	case key.Matches(msg, m.keys.Bottom):
		v.follow = true
	}
	m.clampScroll()
}

// clampScroll keeps every view inside its pane and pins following views to
// the bottom.
func (m *Model) clampScroll() {
	height := max(m.bodyHeight(), 1)
	for i, p := range m.panes {
		v := &m.views[i]
		last := max(p.Len()-height, 0)
		if v.follow || v.top > last {
			v.top = last
		}
		v.top = max(v.top, 0)
	}
}

func (m *Model) setMessage(err error) {
	if err != nil {
		m.message = err.Error()
		return
	}
	m.message = ""
}
