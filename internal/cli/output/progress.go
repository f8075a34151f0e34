package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
)

const progressWidth = 40

// Progress draws a single-line progress bar on a terminal. On other writers
// it stays silent.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	done    int
	enabled bool
	bar     progress.Model
}

// NewProgress starts a progress bar for total items on the diagnostics
// writer. It is a no-op unless the renderer is in text mode on a terminal.
func (r *Renderer) NewProgress(label string, total int) *Progress {
	return &Progress{
		w:       r.errOut,
		label:   label,
		total:   total,
		enabled: r.isTTY && r.EffectiveMode() == ModeText && total > 0,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
	}
}

// Add advances the bar by n items.
func (p *Progress) Add(n int) {
	p.done += n
	if p.done > p.total {
		p.done = p.total
	}
	p.draw()
}

// Clear erases the bar so a regular line can be printed.
func (p *Progress) Clear() {
	if !p.enabled {
		return
	}
	_, _ = fmt.Fprint(p.w, "\r\x1b[2K")
}

// Redraw paints the bar again after Clear.
func (p *Progress) Redraw() {
	p.draw()
}

// Done finishes the bar and moves to a new line.
func (p *Progress) Done() {
	if !p.enabled {
		return
	}
	p.draw()
	_, _ = fmt.Fprintln(p.w)
	p.enabled = false
}

// Percent returns the completed fraction.
func (p *Progress) Percent() float64 {
	if p.total == 0 {
		return 1
	}
	return float64(p.done) / float64(p.total)
}

func (p *Progress) draw() {
	if !p.enabled {
		return
	}
	_, _ = fmt.Fprintf(p.w, "\r%s %s %d/%d", p.label, p.bar.ViewAs(p.Percent()), p.done, p.total)
}
