package progress

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"driftcheck/internal/ports"
)

var labelStyle = lipgloss.NewStyle().Bold(true)

// Reporter renders a single-line progress bar for the batch phases of the
// pipeline. It redraws in place with carriage returns; there is no event
// loop, so the bar is rendered statically per notification.
type Reporter struct {
	out   io.Writer
	bar   progress.Model
	label string
	total int
	done  int
}

// Ensure Reporter implements ports.ProgressReporter
var _ ports.ProgressReporter = (*Reporter)(nil)

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	return &Reporter{out: out, bar: bar}
}

// Start begins a new phase of total steps.
func (r *Reporter) Start(label string, total int) {
	r.label = label
	r.total = total
	r.done = 0
	r.render()
}

// Advance marks one step complete.
func (r *Reporter) Advance() {
	if r.done < r.total {
		r.done++
	}
	r.render()
}

// Done completes the phase and moves to the next line.
func (r *Reporter) Done() {
	r.done = r.total
	r.render()
	fmt.Fprintln(r.out)
}

func (r *Reporter) render() {
	pct := 1.0
	if r.total > 0 {
		pct = float64(r.done) / float64(r.total)
	}
	fmt.Fprintf(r.out, "\r%s %s %d/%d", labelStyle.Render(r.label), r.bar.ViewAs(pct), r.done, r.total)
}
