package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Colors are hex strings.
type Theme struct {
	Name string

	Background string
	Surface    string

	SelectionBg   string
	SelectionText string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Warning string
	Danger  string

	// HighlightColors are offered in order as backgrounds for new rules.
	HighlightColors []string
}

// Styles contains the Lipgloss styles the views render with.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header     lipgloss.Style
	Footer     lipgloss.Style
	Selected   lipgloss.Style
	Badge      lipgloss.Style
	ErrorBadge lipgloss.Style
}

// Styles builds the styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	badge := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(c)).
			Padding(0, 1)
	}
	bar := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(c)).
			Padding(0, 1)
	}

	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),

		Header: bar(t.Text),
		Footer: bar(t.Muted),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Badge:      badge(t.Accent),
		ErrorBadge: badge(t.Danger),
	}
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": {
		Name: "Nightfox",
		Background: "#131a24", Surface: "#192330",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b",
		Accent: "#719cd6", Warning: "#dbc074", Danger: "#c94f6d",
		HighlightColors: []string{"#c94f6d", "#dbc074", "#81b29a", "#719cd6", "#9d79d6"},
	},
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": {
		Name: "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169",
		Accent: "#7E9CD8", Warning: "#E6C384", Danger: "#E46876",
		HighlightColors: []string{"#E46876", "#E6C384", "#98BB6C", "#7E9CD8", "#957FB8"},
	},
	// Tailwind slate/sky
	"Slate": {
		Name: "Slate",
		Background: "#020617", Surface: "#0f172a",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b",
		Accent: "#38bdf8", Warning: "#f59e0b", Danger: "#ef4444",
		HighlightColors: []string{"#dc2626", "#f59e0b", "#16a34a", "#0284c7", "#06b6d4"},
	},
}

// GetTheme returns a theme by name, Nightfox when the name is unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}
