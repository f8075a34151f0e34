package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table writes header and rows as a rounded box table in text mode and as a
// markdown table otherwise.
func (r *Renderer) Table(header []string, rows [][]string) {
	if r.EffectiveMode() != ModeText {
		r.markdownTable(header, rows)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}
	t.Render()
}

func (r *Renderer) markdownTable(header []string, rows [][]string) {
	r.Println("| " + strings.Join(escapeAll(header), " | ") + " |")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	r.Println("| " + strings.Join(sep, " | ") + " |")
	for _, row := range rows {
		r.Println("| " + strings.Join(escapeAll(row), " | ") + " |")
	}
}

func escapeAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = EscapeMarkdown(c)
	}
	return out
}

// EscapeMarkdown escapes the pipe characters that would break a markdown table.
func EscapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
