// Package ui provides the terminal front-end of logglance, built on Bubble Tea.
//
// # Package Structure
//
//   - app.go: Model, Options, the tick loop and Run
//   - input.go: key handling for the normal view, the filter and highlight
//     inputs, the encoding menu and the error list
//   - render.go: tab bar, log rows, size gate prompt, status line
//   - keys.go: key bindings
//   - theme.go: color themes and lipgloss styles
//   - help.go: help overlay
//
// # Data Flow
//
// The UI never reads files. Each tick drains every state.LogPane and then
// renders the visible window of the active one:
//
//	tickMsg → pane.Drain() (all panes) → clampScroll → View → pane.Lines(top, top+h)
//
// Only the rows on screen are styled, through the pane's highlight engine,
// so huge files cost nothing to draw. Following views stay pinned to the
// bottom as lines arrive.
//
// # Size Gate
//
// When the active pane waits on the size gate its rows are replaced by a
// prompt built with state.GatePrompt; y and n answer it.
//
// # Themes
//
// Three themes are available (Nightfox, Kanagawa, Slate). T cycles them and
// the choice is saved to prefs. Each theme offers a palette that new
// highlight rules take their background from, in order.
package ui
