package board

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keybindings for the board TUI.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Grab    key.Binding
	Cancel  key.Binding
	Detail  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding

	// Prompt-mode keys.
	Accept  key.Binding
	Decline key.Binding
}

// DefaultKeyMap returns the standard keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Grab: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "grab/drop"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Detail: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload stages"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Accept: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "move"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "keep in place"),
		),
	}
}

// ShortHelp returns the condensed help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.Detail, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns the expanded help layout.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.Cancel, k.Detail},
		{k.Refresh, k.Help, k.Quit},
	}
}
