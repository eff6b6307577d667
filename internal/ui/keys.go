package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	NextPane   key.Binding
	PrevPane   key.Binding
	Escape     key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	ToggleFollow key.Binding

	// Filter
	Filter          key.Binding
	ToggleApply     key.Binding
	ToggleRegex     key.Binding
	ToggleCase      key.Binding
	AddHighlight    key.Binding
	ClearHighlights key.Binding

	// File
	Encoding   key.Binding
	Reload     key.Binding
	Errors     key.Binding
	GateYes    key.Binding
	GateNo     key.Binding
	Confirm    key.Binding
	ClearError key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next file"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous file"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("pgdn", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle follow"),
		),

		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Edit filter"),
		),
		ToggleApply: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Apply/show all"),
		),
		ToggleRegex: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Toggle regex"),
		),
		ToggleCase: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Toggle ignore case"),
		),
		AddHighlight: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "Add highlight"),
		),
		ClearHighlights: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "Clear highlights"),
		),

		Encoding: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Choose encoding"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reload file"),
		),
		Errors: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Show errors"),
		),
		GateYes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Restricted mode"),
		),
		GateNo: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Open in full"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		ClearError: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear errors"),
		),
	}
}
