package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// downloadKeymap switches its help line between the running and the
// cancelling phase of a run. Both phases answer to the same keys.
type downloadKeymap struct {
	cancelling bool

	cancel, quit key.Binding
}

func newDownloadKeymap() *downloadKeymap {
	return &downloadKeymap{
		cancel: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "cancel"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit now"),
		),
	}
}

func (k *downloadKeymap) setCancelling() {
	k.cancelling = true
}

func (k *downloadKeymap) help() []key.Binding {
	if k.cancelling {
		return []key.Binding{k.quit}
	}

	return []key.Binding{k.cancel}
}

func (k *downloadKeymap) ShortHelp() []key.Binding {
	return k.help()
}

func (k *downloadKeymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.help()}
}
