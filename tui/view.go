package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/downloader"
	"github.com/sdl-cli/sdl/icon"
	"github.com/sdl-cli/sdl/style"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

func (b *downloadBubble) View() string {
	lines := []string{
		style.Title("Downloading") + " " + style.Bold(b.title),
		"",
	}

	for _, snap := range b.rows() {
		lines = append(lines, b.renderRow(snap))
	}

	if b.cancelling && !b.done {
		lines = append(lines, "", style.Fg(color.Yellow)("Cancelling, cleaning up..."))
	}

	return b.renderLines(lines)
}

func (b *downloadBubble) renderRow(snap downloader.Snapshot) string {
	var line string

	switch snap.State {
	case downloader.Pending:
		line = style.Faint("· " + snap.Name)
	case downloader.Running:
		line = fmt.Sprintf("%s %s %s", b.spinnerC.View(), snap.Name, b.renderProgress(snap))
	case downloader.Retrying:
		line = fmt.Sprintf("%s %s %s", b.spinnerC.View(), snap.Name,
			style.Fg(color.Yellow)(fmt.Sprintf("try %d failed: %v", snap.Attempt, snap.Err)))
	case downloader.Succeeded:
		line = fmt.Sprintf("%s %s %s", icon.Get(icon.Success), snap.Name,
			style.Faint(humanize.IBytes(uint64(snap.Done))))
	case downloader.Failed:
		line = fmt.Sprintf("%s %s %s", icon.Get(icon.Fail), snap.Name,
			style.Fg(color.Red)(fmt.Sprintf("%v", snap.Err)))
	case downloader.Skipped:
		line = fmt.Sprintf("%s %s %s", icon.Get(icon.Skip), snap.Name, style.Faint(snap.Note))
	}

	if b.width > 0 {
		line = truncate.StringWithTail(line, uint(b.width), "…")
	}

	return line
}

func (b *downloadBubble) renderProgress(snap downloader.Snapshot) string {
	if snap.Total <= 0 {
		return style.Faint(humanize.IBytes(uint64(snap.Done)))
	}

	percent := float64(snap.Done) / float64(snap.Total)
	if percent > 1 {
		percent = 1
	}

	counts := fmt.Sprintf("%s / %s",
		humanize.IBytes(uint64(snap.Done)), humanize.IBytes(uint64(snap.Total)))

	return b.progressC.ViewAs(percent) + " " + style.Faint(counts)
}

func (b *downloadBubble) renderLines(lines []string) string {
	output := strings.Join(lines, "\n")
	if h := len(lines); b.height > h {
		output += strings.Repeat("\n", b.height-h)
	}
	output += b.helpC.View(b.keymap)

	return paddingStyle.Render(output)
}
