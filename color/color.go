// Package color holds the ANSI palette used across command output.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps a terminal color value, either an ANSI index or a hex triplet.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// The standard palette and its bright counterpart. Indexed colors resolve
// through the terminal theme.
var (
	Black  = New("0")
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
	White  = New("7")

	HiBlack  = New("8")
	HiRed    = New("9")
	HiGreen  = New("10")
	HiYellow = New("11")
	HiBlue   = New("12")
	HiPurple = New("13")
	HiCyan   = New("14")
	HiWhite  = New("15")
)
