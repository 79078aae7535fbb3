package view

import (
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/specc/internal/render"
)

// ProgramDisplay forwards frames to a running bubbletea program.
type ProgramDisplay struct {
	program *tea.Program
}

// NewProgramDisplay wraps p, which should be running a Dashboard.
func NewProgramDisplay(p *tea.Program) *ProgramDisplay {
	return &ProgramDisplay{program: p}
}

// Show sends f to the dashboard.
func (d *ProgramDisplay) Show(f render.Frame) error {
	d.program.Send(FrameMsg(f))
	return nil
}

// Close asks the program to exit.
func (d *ProgramDisplay) Close() error {
	d.program.Quit()
	return nil
}

// WriterDisplay draws each frame to an io.Writer, one after another.
// It is used when stdout is not a terminal.
type WriterDisplay struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewWriterDisplay returns a display writing width-column frames to w.
func NewWriterDisplay(w io.Writer, width int) *WriterDisplay {
	return &WriterDisplay{w: w, width: width}
}

// Show draws f followed by a blank line.
func (d *WriterDisplay) Show(f render.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintf(d.w, "%s\n\n", Draw(f, d.width))
	return err
}

// Close implements live.Display; there is nothing to release.
func (d *WriterDisplay) Close() error { return nil }
