// Package ui provides terminal styling helpers for stagehand CLI output.
package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsInteractive reports whether stdout is a terminal. Non-interactive
// output (pipes, CI) gets plain text and no forms.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor respects NO_COLOR and non-terminal output.
func ShouldUseColor() bool {
	if termenv.EnvNoColor() {
		return false
	}
	return IsInteractive()
}

// ConfigureColor applies the color decision process-wide for fatih/color
// output.
func ConfigureColor() {
	color.NoColor = !ShouldUseColor()
}

// Success formats a success line.
var Success = color.New(color.FgGreen).SprintfFunc()

// Warn formats a warning line.
var Warn = color.New(color.FgYellow).SprintfFunc()

// Fail formats an error line.
var Fail = color.New(color.FgRed).SprintfFunc()

// Muted formats de-emphasized detail text.
var Muted = color.New(color.Faint).SprintfFunc()
