package board

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorSelected = lipgloss.Color("39")  // blue
	colorGrabbed  = lipgloss.Color("214") // orange
	colorBusy     = lipgloss.Color("242") // gray
	colorMuted    = lipgloss.Color("242")
	colorWarn     = lipgloss.Color("214")
	colorError    = lipgloss.Color("196")
	colorOK       = lipgloss.Color("76")
)

// Styles for the board TUI
var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1).
			MarginRight(1)

	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				MarginBottom(1)

	countStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(colorSelected).
				Bold(true)

	grabbedCardStyle = cardStyle.
				Border(lipgloss.DoubleBorder()).
				BorderForeground(colorGrabbed)

	busyCardStyle = cardStyle.
			Foreground(colorBusy)

	cardMetaStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	promptStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorWarn).
			Padding(1, 2)

	promptTitleStyle = lipgloss.NewStyle().
				Bold(true).
				MarginBottom(1)

	promptWarnStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	toastOKStyle = lipgloss.NewStyle().
			Foreground(colorOK)

	toastErrStyle = lipgloss.NewStyle().
			Foreground(colorError)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)
)
