package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sdl-cli/sdl/browser"
	"github.com/sdl-cli/sdl/downloader"
	"github.com/sdl-cli/sdl/icon"
	"github.com/sdl-cli/sdl/lang"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/rangeset"
	"github.com/sdl-cli/sdl/recent"
	"github.com/sdl-cli/sdl/site"
	"github.com/sdl-cli/sdl/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// download runs the root command: a series selection, or a single hoster
// URL when direct mode is requested.
func download(cmd *cobra.Command, args []string) {
	ctx, stop := runContext()
	defer stop()
	defer browser.Shutdown()

	if lo.Must(cmd.Flags().GetBool("direct")) {
		if len(args) == 0 {
			handleErr(errors.New("a hoster URL is required with --direct"))
		}
		downloadDirect(ctx, cmd, args[0])
		return
	}
	if lo.Must(cmd.Flags().GetString("extractor")) != "" {
		handleErr(errors.New("--extractor only applies together with --direct"))
	}

	var url string
	if len(args) > 0 {
		url = args[0]
	} else {
		url = promptRecent()
	}

	ref, err := site.ParseURL(url)
	handleErr(err)

	req := downloader.Request{
		Ref:      ref,
		Episodes: parseRange(cmd, "episodes"),
		Seasons:  parseRange(cmd, "seasons"),
		Variant:  pickVariant(cmd, ref),
	}

	if interactive() {
		finishRun(tui.Run(ctx, &tui.Options{
			Title: ref.Slug,
			Start: func(ctx context.Context, send func(downloader.Snapshot)) error {
				_, err := downloader.Run(ctx, req, downloader.Options{OnUpdate: send})
				return err
			},
		}))
		return
	}

	log.EnableConsole()
	result, err := downloader.Run(ctx, req, downloader.Options{OnUpdate: reportProgress()})
	if result != nil {
		fmt.Print(tui.Summary(result.Tasks))
	}
	finishRun(err)
}

// downloadDirect resolves one hoster URL against the extractor registry and
// downloads whatever it yields.
func downloadDirect(ctx context.Context, cmd *cobra.Command, url string) {
	req := downloader.DirectRequest{
		URL:       url,
		Extractor: lo.Must(cmd.Flags().GetString("extractor")),
	}

	if interactive() {
		finishRun(tui.Run(ctx, &tui.Options{
			Title: url,
			Start: func(ctx context.Context, send func(downloader.Snapshot)) error {
				_, err := downloader.RunDirect(ctx, req, downloader.Options{OnUpdate: send})
				return err
			},
		}))
		return
	}

	log.EnableConsole()
	result, err := downloader.RunDirect(ctx, req, downloader.Options{OnUpdate: reportProgress()})
	if result != nil {
		fmt.Print(tui.Summary(result.Tasks))
	}
	finishRun(err)
}

// runContext cancels on the first interrupt, letting running downloads
// clean up and report, and exits outright on the second.
func runContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		_, _ = fmt.Fprintf(os.Stderr, "\n%s stopping, waiting for running downloads (interrupt again to exit now)\n", icon.Get(icon.Clock))
		cancel()
		<-signals
		os.Exit(1)
	}()

	return ctx, func() {
		signal.Stop(signals)
		cancel()
	}
}

// interactive reports whether stdout is a terminal the live view can own.
func interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// promptRecent offers the recently used series when the command line did
// not name a URL.
func promptRecent() string {
	if !interactive() {
		handleErr(errors.New("a series, season or episode URL is required"))
	}

	urls := recent.Suggest("")
	if len(urls) == 0 {
		handleErr(errors.New("a series, season or episode URL is required"))
	}

	var url string
	if err := survey.AskOne(&survey.Select{
		Message: "Download from a recent series?",
		Options: urls,
	}, &url); err != nil {
		if err.Error() == "interrupt" {
			os.Exit(0)
		}
		handleErr(err)
	}
	return url
}

// pickVariant narrows the language variant from the flags, falling back to
// an interactive choice when the terminal allows one.
func pickVariant(cmd *cobra.Command, ref *site.Ref) lang.Variant {
	typ := lo.Must(cmd.Flags().GetString("type"))
	language := lo.Must(cmd.Flags().GetString("language"))

	var kind lang.Kind
	if typ != "" {
		parsed, err := lang.ParseKind(typ)
		handleErr(err)
		kind = parsed
	}
	var spoken lang.Language
	if language != "" {
		parsed, err := lang.ParseLanguage(language)
		handleErr(err)
		spoken = parsed
	}
	variant := lang.Compose(kind, spoken)

	if typ != "" || language != "" || !interactive() {
		return variant
	}

	candidates := ref.Site.Category.Preference()
	if len(candidates) < 2 {
		return variant
	}

	options := make([]string, 0, len(candidates)+1)
	options = append(options, "Site preference")
	for _, candidate := range candidates {
		options = append(options, candidate.String())
	}

	var picked string
	if err := survey.AskOne(&survey.Select{
		Message: "Which language variant?",
		Options: options,
	}, &picked); err != nil {
		if err.Error() == "interrupt" {
			os.Exit(0)
		}
		handleErr(err)
	}
	if picked == "" || picked == "Site preference" {
		return variant
	}

	parsed, err := lang.ParseVariant(picked)
	handleErr(err)
	return parsed
}

// parseRange reads a range flag into an optional selection set.
func parseRange(cmd *cobra.Command, name string) mo.Option[rangeset.Set] {
	expr := lo.Must(cmd.Flags().GetString(name))
	if expr == "" {
		return mo.None[rangeset.Set]()
	}

	set, err := rangeset.Parse(expr)
	handleErr(err)
	return mo.Some(set)
}

// reportProgress logs task state changes for runs without the live view.
func reportProgress() func(downloader.Snapshot) {
	var mu sync.Mutex
	seen := make(map[int]downloader.State)

	return func(snap downloader.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if seen[snap.ID] == snap.State {
			return
		}
		seen[snap.ID] = snap.State

		switch snap.State {
		case downloader.Running:
			log.Infof("downloading %s", snap.Name)
		case downloader.Retrying:
			log.Warnf("%s: try %d failed: %s", snap.Name, snap.Attempt, snap.Err)
		case downloader.Succeeded:
			log.Infof("finished %s (%s)", snap.Name, humanize.IBytes(uint64(snap.Done)))
		case downloader.Failed:
			log.Errorf("%s failed: %s", snap.Name, snap.Err)
		case downloader.Skipped:
			log.Infof("skipped %s: %s", snap.Name, snap.Note)
		}
	}
}

// finishRun translates the run error into process exit.
func finishRun(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		handleErr(errors.New("stopped before every episode finished"))
	}
	handleErr(err)
}
