// Package tui renders the live download view: one line per task, fed by
// scheduler snapshots, with a styled summary once the run ends.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sdl-cli/sdl/downloader"
)

// snapshotMsg delivers a task update from the run goroutine.
type snapshotMsg downloader.Snapshot

// doneMsg ends the view once the run goroutine returns.
type doneMsg struct {
	err error
}

// Options configures a live download view.
type Options struct {
	// Title names what is being downloaded, shown above the task list.
	Title string

	// Start launches the run and streams task snapshots through send.
	// It is called on its own goroutine; its error becomes Run's result.
	Start func(ctx context.Context, send func(downloader.Snapshot)) error
}

// Run drives the progress view until the download finishes or the user
// cancels it. The first quit key cancels the run and waits for cleanup,
// the second one leaves immediately.
func Run(ctx context.Context, options *Options) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	bubble := newBubble(options.Title, cancel)
	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		err := options.Start(runCtx, func(snap downloader.Snapshot) {
			program.Send(snapshotMsg(snap))
		})
		program.Send(doneMsg{err: err})
	}()

	final, err := program.Run()
	bubble, ok := final.(*downloadBubble)
	if !ok {
		return err
	}

	if summary := Summary(bubble.rows()); summary != "" {
		fmt.Print(summary)
	}

	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	if !bubble.done {
		// Force-quit before the run goroutine reported back.
		return context.Canceled
	}

	return bubble.err
}
