// Package style decorates terminal output through lipgloss.
package style

import "github.com/charmbracelet/lipgloss"

// New returns an empty style to build on.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer that paints text with the given foreground color.
func Fg(c lipgloss.Color) func(string) string {
	base := New().Foreground(c)
	return func(s string) string { return base.Render(s) }
}

// Faint renders dimmed text.
func Faint(s string) string {
	return New().Faint(true).Render(s)
}

// Bold renders emphasized text.
func Bold(s string) string {
	return New().Bold(true).Render(s)
}

// Title renders the padded banner shown atop interactive screens.
func Title(s string) string {
	return New().Foreground(Base).Background(AccentColor).Padding(0, 1).Bold(true).Render(s)
}
