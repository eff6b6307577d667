package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/five82/logglance/internal/highlight"
	"github.com/five82/logglance/internal/source"
	"github.com/five82/logglance/internal/state"
)

const tabWidth = 4

// bodyHeight is the number of log rows: everything but the tab bar and the
// status line.
func (m Model) bodyHeight() int {
	return m.height - 2
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

// renderTabs renders one tab per pane.
func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	tabs := make([]string, 0, len(m.panes))
	for i, p := range m.panes {
		title := p.Title()
		if st := p.Status(); len(st.Errors) > 0 {
			title += " !"
		}
		if i == m.active {
			tabs = append(tabs, styles.Badge.Render(title))
		} else {
			tabs = append(tabs, styles.MutedText.Padding(0, 1).Render(title))
		}
	}
	return styles.Header.Width(m.width).Render(strings.Join(tabs, " "))
}

// renderBody renders the active pane or the overlay that replaces it.
func (m Model) renderBody() string {
	height := max(m.bodyHeight(), 0)
	p := m.activePane()
	if p == nil {
		return m.fill("No file open", height)
	}

	if size, awaiting := p.AwaitingGate(); awaiting {
		return m.renderGate(size, height)
	}

	switch m.mode {
	case modeEncoding:
		return m.renderEncodings(height)
	case modeErrors:
		return m.renderErrors(height)
	}

	st := p.Status()
	if st.Visible == 0 {
		switch {
		case st.Loading():
			return m.fill("Loading "+p.Title()+"...", height)
		case st.LastError() != nil:
			return m.fill("Error: "+st.LastError().Error(), height)
		case st.Total > 0:
			return m.fill("No line matches the filter", height)
		default:
			return m.fill("(empty)", height)
		}
	}

	v := m.views[m.active]
	rows := make([]string, 0, height)
	for _, line := range p.Lines(v.top, v.top+height) {
		rows = append(rows, renderLine(line, m.width))
	}
	for len(rows) < height {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

// renderLine turns a styled line into terminal output clipped to width.
func renderLine(line highlight.Line, width int) string {
	base := lipgloss.NewStyle()
	if line.Default.Foreground != "" {
		base = base.Foreground(line.Default.Foreground)
	}
	if line.Default.Background != "" {
		base = base.Background(line.Default.Background)
	}

	chunks := line.Chunks
	if len(chunks) == 0 {
		chunks = []highlight.Chunk{{Text: line.Text}}
	}

	var b strings.Builder
	remaining := width
	for _, c := range chunks {
		if remaining <= 0 {
			break
		}
		text := runewidth.Truncate(expandTabs(c.Text), remaining, "")
		remaining -= runewidth.StringWidth(text)

		style := base
		if c.Style != nil {
			if c.Style.Foreground != "" {
				style = style.Foreground(c.Style.Foreground)
			}
			if c.Style.Background != "" {
				style = style.Background(c.Style.Background)
			}
		}
		b.WriteString(style.Render(text))
	}
	if remaining > 0 && line.Default.Background != "" {
		// Row highlights span the full width.
		b.WriteString(base.Render(strings.Repeat(" ", remaining)))
	}
	return b.String()
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func (m Model) renderGate(size int64, height int) string {
	prompt := state.GatePrompt(size, m.config.MaxFileSize, m.config.MaxRows)
	return m.modal("Large file", prompt+"\n\n[y] restricted   [n] open in full", height)
}

func (m Model) renderEncodings(height int) string {
	styles := m.theme.Styles()
	rows := max(height-4, 1)
	start := max(min(m.encodingIdx-rows/2, len(m.encodings)-rows), 0)
	end := min(start+rows, len(m.encodings))

	var b strings.Builder
	for i := start; i < end; i++ {
		name := m.encodings[i].Name()
		if i == m.encodingIdx {
			b.WriteString(styles.Selected.Render("> " + name))
		} else {
			b.WriteString(styles.Text.Render("  " + name))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return m.modal("Encoding", b.String(), height)
}

func (m *Model) refreshErrors() {
	p := m.activePane()
	if p == nil {
		m.errorsView.SetContent("")
		return
	}
	errs := p.Status().Errors
	if len(errs) == 0 {
		m.errorsView.SetContent("No errors.")
		return
	}
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = fmt.Sprintf("%d. %v", i+1, err)
	}
	m.errorsView.SetContent(strings.Join(lines, "\n"))
}

func (m Model) renderErrors(height int) string {
	styles := m.theme.Styles()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Width(max(m.width-2, 0)).
		Height(max(height-2, 0))
	title := styles.DangerText.Render("Errors") + styles.MutedText.Render("  x clear, esc close")
	return title + "\n" + box.Render(m.errorsView.View())
}

// renderStatus renders the input line, or the status of the active pane.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	if m.mode == modeFilter || m.mode == modeHighlight {
		return styles.Footer.Width(m.width).Render(m.input.View())
	}

	p := m.activePane()
	if p == nil {
		return styles.Footer.Width(m.width).Render("")
	}
	st := p.Status()
	v := m.views[m.active]

	parts := []string{
		st.Encoding.Name(),
		st.Gate.String(),
		fmt.Sprintf("%s/%s lines", humanize.Comma(int64(st.Visible)), humanize.Comma(int64(st.Total))),
		humanize.IBytes(uint64(st.Offset)),
	}
	spec, applied := p.Filter()
	if !spec.IsEmpty() {
		flags := ""
		if spec.Regex {
			flags += "r"
		}
		if spec.CaseInsensitive {
			flags += "i"
		}
		onOff := "off"
		if applied {
			onOff = "on"
		}
		parts = append(parts, fmt.Sprintf("filter %q/%s %s", spec.Pattern, flags, onOff))
	}
	if v.follow {
		parts = append(parts, "follow")
	}
	if st.Watch == source.Terminated {
		parts = append(parts, "stopped")
	}

	left := strings.Join(parts, " | ")
	switch {
	case st.FilterErr != nil:
		left += " | " + styles.DangerText.Render(st.FilterErr.Error())
	case m.message != "":
		left += " | " + styles.WarningText.Render(m.message)
	}
	if n := len(st.Errors); n > 0 {
		left = styles.ErrorBadge.Render(fmt.Sprintf("%d errors", n)) + " " + left
	}
	return styles.Footer.Width(m.width).Render(left)
}

func (m Model) fill(text string, height int) string {
	styles := m.theme.Styles()
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(text))
}

func (m Model) modal(title, content string, height int) string {
	styles := m.theme.Styles()
	body := styles.AccentText.Bold(true).Render(title) + "\n\n" + content
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(min(60, max(m.width-4, 10))).
		Render(body)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}
