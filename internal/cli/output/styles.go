package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by a Renderer.
type Styles struct {
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style
	Panel   lipgloss.Style
}

// NewStyles builds styles for w. Colours are stripped when w is not a
// terminal or NO_COLOR is set.
func NewStyles(w io.Writer, isTTY bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if !isTTY || termenv.EnvNoColor() {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Bold:    lr.NewStyle().Bold(true),
		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("9")),
		Info:    lr.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:   lr.NewStyle().Faint(true),
		Path:    lr.NewStyle().Foreground(lipgloss.Color("14")),
		Panel: lr.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1),
	}
}

func (r *Renderer) statusIcon(status string) (string, lipgloss.Style) {
	switch status {
	case "success", "done":
		return "✓", r.styles.Success
	case "planned":
		return "→", r.styles.Warning
	case "skipped":
		return "-", r.styles.Muted
	case "error":
		return "✗", r.styles.Error
	default:
		return "•", r.styles.Info
	}
}

// Panel renders body inside a bordered box with a bold title line.
func (r *Renderer) Panel(title, body string) {
	if r.EffectiveMode() != ModeText {
		r.Println(FormatHeader(2, title))
		r.Println("")
		r.Println(body)
		r.Println("")
		return
	}
	r.Println(r.styles.Panel.Render(r.styles.Header.Render(title) + "\n" + body))
}
