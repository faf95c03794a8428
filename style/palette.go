package style

import "github.com/charmbracelet/lipgloss"

// Truecolor palette for the interactive surfaces. Plain command output
// sticks to the ANSI set from the color package.
var (
	Base  = lipgloss.Color("#222436")
	Text  = lipgloss.Color("#c8d3f5")
	Muted = lipgloss.Color("#7a88cf")

	Red    = lipgloss.Color("#ff757f")
	Yellow = lipgloss.Color("#ffc777")
	Green  = lipgloss.Color("#c3e88d")
	Purple = lipgloss.Color("#c099ff")

	AccentColor = Purple
)
