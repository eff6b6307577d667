package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logglance/internal/charset"
	"github.com/five82/logglance/internal/config"
	"github.com/five82/logglance/internal/prefs"
	"github.com/five82/logglance/internal/state"
)

// inputMode is what the keyboard is currently driving.
type inputMode int

const (
	modeNormal inputMode = iota
	modeFilter
	modeHighlight
	modeEncoding
	modeErrors
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Panes     []*state.LogPane
	Config    *config.Config
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	Prefs     prefs.Prefs
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	config    *config.Config
	prefsPath string
	prefs     prefs.Prefs
	pollTick  time.Duration

	// UI state
	theme    Theme
	keys     keyMap
	mode     inputMode
	width    int
	height   int
	ready    bool
	showHelp bool
	message  string

	// Panes
	panes  []*state.LogPane
	active int
	views  []paneView

	// Inputs
	input        textinput.Model
	encodings    []charset.Encoding
	encodingIdx  int
	errorsView   viewport.Model
	nextColorIdx int
}

// paneView is the scroll state of one pane.
type paneView struct {
	top    int
	follow bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = 200 * time.Millisecond
	}

	themeName := opts.ThemeName
	if themeName == "" && opts.Config != nil {
		themeName = opts.Config.Theme
	}

	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	ti := textinput.New()
	ti.CharLimit = 512

	views := make([]paneView, len(opts.Panes))
	for i := range views {
		views[i].follow = true
	}

	return Model{
		ctx:        ctx,
		config:     cfg,
		prefsPath:  opts.PrefsPath,
		prefs:      opts.Prefs,
		pollTick:   pollTick,
		theme:      GetTheme(themeName),
		keys:       defaultKeyMap(),
		panes:      opts.Panes,
		views:      views,
		input:      ti,
		encodings:  charset.Available(),
		errorsView: viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tickCmd(m.pollTick))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.errorsView.Width = max(m.width-4, 0)
		m.errorsView.Height = max(m.bodyHeight()-2, 0)
		m.ready = true
		m.clampScroll()
		return m, nil

	case tickMsg:
		return m.handleTick()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleTick drains every pane so background panes keep up too.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.ctx.Err() != nil {
		return m, tea.Quit
	}
	for _, p := range m.panes {
		p.Drain()
	}
	m.clampScroll()
	if m.mode == modeErrors {
		m.refreshErrors()
	}
	return m, tickCmd(m.pollTick)
}

// activePane returns the pane on screen, nil when there is none.
func (m Model) activePane() *state.LogPane {
	if m.active < 0 || m.active >= len(m.panes) {
		return nil
	}
	return m.panes[m.active]
}

// Messages

type tickMsg time.Time

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
