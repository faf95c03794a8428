package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sdl-cli/sdl/downloader"
)

func (b *downloadBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil

	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.cancel) {
			if b.done || b.cancelling {
				return b, tea.Quit
			}

			b.cancelling = true
			b.keymap.setCancelling()
			b.cancel()
			return b, nil
		}

		return b, nil

	case snapshotMsg:
		snap := downloader.Snapshot(msg)
		b.tasks[snap.ID] = snap
		return b, nil

	case doneMsg:
		b.done = true
		b.err = msg.err
		return b, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	}

	return b, nil
}
