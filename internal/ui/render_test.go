package ui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/five82/logglance/internal/highlight"
)

func TestRenderLine(t *testing.T) {
	match := highlight.Style{Foreground: highlight.DefaultMatchColor}

	tests := []struct {
		name  string
		line  highlight.Line
		width int
		want  string
	}{
		{
			name:  "plain",
			line:  highlight.Line{Text: "hello"},
			width: 10,
			want:  "hello",
		},
		{
			name:  "clipped",
			line:  highlight.Line{Text: "hello world"},
			width: 5,
			want:  "hello",
		},
		{
			name: "chunks keep order",
			line: highlight.Line{
				Text:   "a error b",
				Chunks: []highlight.Chunk{{Text: "a "}, {Text: "error", Style: &match}, {Text: " b"}},
			},
			width: 20,
			want:  "a error b",
		},
		{
			name: "chunks clipped",
			line: highlight.Line{
				Text:   "a error b",
				Chunks: []highlight.Chunk{{Text: "a "}, {Text: "error", Style: &match}, {Text: " b"}},
			},
			width: 4,
			want:  "a er",
		},
		{
			name:  "row highlight fills width",
			line:  highlight.Line{Text: "x", Default: highlight.Style{Background: highlight.DefaultRuleBackground}},
			width: 4,
			want:  "x   ",
		},
		{
			name:  "tabs expand",
			line:  highlight.Line{Text: "\tx"},
			width: 10,
			want:  "    x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ansi.Strip(renderLine(tt.line, tt.width)))
		})
	}
}
