package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Terminal writes progress lines, with color and in-place updates only
// when attached to a terminal
type Terminal struct {
	w            io.Writer
	IsTerminal   bool
	UseColor     bool
	spinnerIndex int
}

// NewTerminal creates a Terminal for f, usually os.Stdout
func NewTerminal(f *os.File) *Terminal {
	isTerminal := term.IsTerminal(int(f.Fd()))
	return &Terminal{w: f, IsTerminal: isTerminal, UseColor: isTerminal}
}

// NewPlainTerminal creates a Terminal that never emits control codes
func NewPlainTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Status replaces the current status line on a terminal, or prints a new
// line otherwise
func (t *Terminal) Status(color, msg string) {
	if t.IsTerminal {
		fmt.Fprint(t.w, "\r\033[K"+t.Color(color, t.spinner()+" "+msg))
		return
	}
	fmt.Fprintln(t.w, msg)
}

// Done clears any status line left on a terminal
func (t *Terminal) Done() {
	if t.IsTerminal {
		fmt.Fprint(t.w, "\r\033[K")
	}
}

// Color wraps text in ANSI color codes (terminal only)
func (t *Terminal) Color(color, text string) string {
	if !t.UseColor {
		return text
	}
	return color + text + ColorReset
}

func (t *Terminal) spinner() string {
	frame := spinnerFrames[t.spinnerIndex]
	t.spinnerIndex = (t.spinnerIndex + 1) % len(spinnerFrames)
	return frame
}

// ScoreColor picks a color for a 0-100 score
func ScoreColor(score float64) string {
	switch {
	case score >= 70:
		return ColorGreen
	case score >= 40:
		return ColorYellow
	default:
		return ColorGray
	}
}

// PhaseColor returns the color for a refresh phase
func PhaseColor(phase string) string {
	switch phase {
	case "listing":
		return ColorCyan
	case "loading":
		return ColorBlue
	case "indexing":
		return ColorYellow
	default:
		return ColorReset
	}
}
