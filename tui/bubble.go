package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/sdl-cli/sdl/downloader"
	"github.com/sdl-cli/sdl/style"
	"github.com/sdl-cli/sdl/util"
)

// downloadBubble tracks the latest snapshot of every task in a run.
type downloadBubble struct {
	title  string
	cancel context.CancelFunc

	keymap *downloadKeymap

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model

	tasks map[int]downloader.Snapshot

	cancelling bool
	done       bool
	err        error

	width, height int
}

func newBubble(title string, cancel context.CancelFunc) *downloadBubble {
	bubble := &downloadBubble{
		title:  title,
		cancel: cancel,
		keymap: newDownloadKeymap(),
		tasks:  make(map[int]downloader.Snapshot),
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithDefaultGradient())

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return bubble
}

func (b *downloadBubble) Init() tea.Cmd {
	return b.spinnerC.Tick
}

// resize propagates terminal dimension changes to the child components.
func (b *downloadBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	b.width = width - x
	b.height = height - y
	b.helpC.Width = b.width

	b.progressC.Width = util.Max(10, util.Min(40, width/3))
}

// rows returns the known tasks in launch order.
func (b *downloadBubble) rows() []downloader.Snapshot {
	ids := lo.Keys(b.tasks)
	slices.Sort(ids)

	return lo.Map(ids, func(id int, _ int) downloader.Snapshot {
		return b.tasks[id]
	})
}
