package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"

	"github.com/sdl-cli/sdl/color"
	"github.com/sdl-cli/sdl/downloader"
	"github.com/sdl-cli/sdl/icon"
	"github.com/sdl-cli/sdl/style"
)

// Summary renders the per-task outcome list shown once a run has ended.
// The same rendering serves non-interactive runs.
func Summary(tasks []downloader.Snapshot) string {
	if len(tasks) == 0 {
		return ""
	}

	counts := lo.CountValuesBy(tasks, func(snap downloader.Snapshot) downloader.State {
		return snap.State
	})

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(style.Bold(fmt.Sprintf(
		"%d downloaded, %d skipped, %d failed",
		counts[downloader.Succeeded],
		counts[downloader.Skipped],
		len(tasks)-counts[downloader.Succeeded]-counts[downloader.Skipped],
	)))
	sb.WriteString("\n\n")

	for _, snap := range tasks {
		sb.WriteString(summaryRow(snap))
		sb.WriteString("\n")
	}

	return sb.String()
}

func summaryRow(snap downloader.Snapshot) string {
	switch snap.State {
	case downloader.Succeeded:
		detail := humanize.IBytes(uint64(snap.Done))
		if snap.Path != "" {
			detail += "  " + snap.Path
		}
		return fmt.Sprintf("%s %s %s", icon.Get(icon.Success), snap.Name, style.Faint(detail))

	case downloader.Skipped:
		return fmt.Sprintf("%s %s %s", icon.Get(icon.Skip), snap.Name, style.Faint(snap.Note))

	case downloader.Failed:
		reason := "failed"
		if snap.Err != nil {
			reason = snap.Err.Error()
		}
		if snap.Attempt > 0 {
			reason = fmt.Sprintf("%s (%d retries)", reason, snap.Attempt)
		}
		return fmt.Sprintf("%s %s %s", icon.Get(icon.Fail), snap.Name,
			style.Fg(color.Red)(wrap.String(reason, 80)))

	default:
		return fmt.Sprintf("%s %s %s", icon.Get(icon.Clock), snap.Name, style.Faint("cancelled"))
	}
}
