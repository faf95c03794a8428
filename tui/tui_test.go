package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/sdl-cli/sdl/downloader"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDownloadBubble(t *testing.T) {
	Convey("Given a download view", t, func() {
		cancelled := false
		bubble := newBubble("Demo Series", func() { cancelled = true })

		Convey("Snapshots are kept per task and listed in launch order", func() {
			for _, id := range []int{2, 0, 1} {
				bubble.Update(snapshotMsg{ID: id, Name: "task", State: downloader.Pending})
			}
			bubble.Update(snapshotMsg{ID: 1, Name: "task", State: downloader.Running})

			rows := bubble.rows()
			So(rows, ShouldHaveLength, 3)
			So(rows[0].ID, ShouldEqual, 0)
			So(rows[1].ID, ShouldEqual, 1)
			So(rows[1].State, ShouldEqual, downloader.Running)
			So(rows[2].ID, ShouldEqual, 2)
		})

		Convey("The first quit key cancels the run and keeps the view open", func() {
			_, cmd := bubble.Update(keyPress('q'))

			So(cancelled, ShouldBeTrue)
			So(bubble.cancelling, ShouldBeTrue)
			So(cmd, ShouldBeNil)

			Convey("The second quit key leaves immediately", func() {
				_, cmd := bubble.Update(keyPress('q'))

				So(cmd, ShouldNotBeNil)
				So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
			})
		})

		Convey("The done message records the result and quits", func() {
			runErr := errors.New("boom")
			_, cmd := bubble.Update(doneMsg{err: runErr})

			So(bubble.done, ShouldBeTrue)
			So(bubble.err, ShouldEqual, runErr)
			So(cmd, ShouldNotBeNil)
			So(cmd(), ShouldHaveSameTypeAs, tea.QuitMsg{})
		})

		Convey("The view lists every task", func() {
			bubble.resize(100, 20)
			bubble.Update(snapshotMsg{ID: 0, Name: "S01E1 - GerDub", State: downloader.Succeeded, Done: 1024})
			bubble.Update(snapshotMsg{ID: 1, Name: "S01E2 - GerDub", State: downloader.Running, Done: 5, Total: 10})

			view := bubble.View()
			So(view, ShouldContainSubstring, "Demo Series")
			So(view, ShouldContainSubstring, "S01E1 - GerDub")
			So(view, ShouldContainSubstring, "S01E2 - GerDub")
		})
	})
}

func TestSummary(t *testing.T) {
	Convey("Given finished tasks", t, func() {
		tasks := []downloader.Snapshot{
			{ID: 0, Name: "S01E1 - GerDub", State: downloader.Succeeded, Done: 2048, Path: "dl/S01E1.mp4"},
			{ID: 1, Name: "S01E2 - GerDub", State: downloader.Skipped, Note: "already downloaded"},
			{ID: 2, Name: "S01E3 - GerDub", State: downloader.Failed, Err: errors.New("server gone"), Attempt: 2},
			{ID: 3, Name: "S01E4 - GerDub", State: downloader.Pending},
		}

		Convey("The summary counts outcomes and lists each task", func() {
			summary := Summary(tasks)

			So(summary, ShouldContainSubstring, "1 downloaded, 1 skipped, 2 failed")
			So(summary, ShouldContainSubstring, "dl/S01E1.mp4")
			So(summary, ShouldContainSubstring, "already downloaded")
			So(summary, ShouldContainSubstring, "server gone")
			So(summary, ShouldContainSubstring, "(2 retries)")
			So(summary, ShouldContainSubstring, "cancelled")
			So(strings.Count(summary, "\n"), ShouldBeGreaterThanOrEqualTo, 6)
		})

		Convey("An empty run renders nothing", func() {
			So(Summary(nil), ShouldBeEmpty)
		})
	})
}
