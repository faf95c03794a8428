// Package downloader turns a parsed series reference into files on disk.
// It enumerates the series, expands the requested selection into concrete
// episodes and runs them through a bounded pool of download tasks, each
// reporting its progress through snapshots.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/mo"
	"github.com/sdl-cli/sdl/extract"
	"github.com/sdl-cli/sdl/ffmpeg"
	"github.com/sdl-cli/sdl/internal/cache"
	"github.com/sdl-cli/sdl/key"
	"github.com/sdl-cli/sdl/lang"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/network"
	"github.com/sdl-cli/sdl/rangeset"
	"github.com/sdl-cli/sdl/recent"
	"github.com/sdl-cli/sdl/site"
	"github.com/sdl-cli/sdl/util"
	"github.com/spf13/viper"
)

// ErrEpisodesFailed marks a run in which at least one episode could not be
// downloaded. The siblings are unaffected; the error only drives the exit
// code.
var ErrEpisodesFailed = errors.New("episodes failed")

// ErrNothingSelected marks a selection that matched no listed episode.
var ErrNothingSelected = errors.New("no episodes matched the selection")

// Request selects what to download from one series.
type Request struct {
	// Ref is the parsed series, season or episode URL.
	Ref *site.Ref
	// Episodes picks episodes by number from a single season: the one the
	// URL names, or season one.
	Episodes mo.Option[rangeset.Set]
	// Seasons picks whole seasons by number. The movie listing stays out
	// since season numbering starts at one.
	Seasons mo.Option[rangeset.Set]
	// Variant narrows the language variant. Unspecified halves accept
	// whatever the site prefers.
	Variant lang.Variant
	// Dir overrides the configured download directory.
	Dir string
}

// Options configure a run.
type Options struct {
	// Session carries every request of the run; nil builds one from the
	// configuration.
	Session *network.Session
	// OnUpdate observes task snapshots as they change. It is called from
	// the download goroutines, so it must be safe for concurrent use.
	OnUpdate func(Snapshot)
}

// Result reports what a run did, one snapshot per selected episode.
type Result struct {
	Entry *site.Entry
	Tasks []Snapshot
}

// Run downloads the requested episodes. The returned result is complete
// even when the error is not nil: cancelled and failed episodes appear
// with their final states.
func Run(ctx context.Context, req Request, opts Options) (*Result, error) {
	session := opts.Session
	if session == nil {
		var err error
		if session, err = network.FromConfig(); err != nil {
			return nil, err
		}
	}

	entry, err := enumerate(ctx, session, req.Ref)
	if err != nil {
		return nil, err
	}
	if err := recent.Remember(entry.URL, entry.Title); err != nil {
		log.Warnf("failed to update recent series: %s", err)
	}

	episodes, err := selection(entry, req)
	if err != nil {
		return nil, err
	}
	log.Infof("selected %s of %s", util.Quantify(len(episodes), "episode", "episodes"), entry.Title)

	r, err := newRunner(ctx, session, req)
	if err != nil {
		return nil, err
	}

	tasks := make([]*task, len(episodes))
	for i, ep := range episodes {
		tasks[i] = newTask(i, ep, baseName(ep), opts.OnUpdate)
	}

	runPool(ctx, tasks, viper.GetInt(key.DownloadsConcurrency), func(t *task) {
		r.download(ctx, t)
	})

	result := &Result{Entry: entry, Tasks: make([]Snapshot, len(tasks))}
	failed := 0
	for i, t := range tasks {
		// Tasks never admitted still count as cancelled failures.
		if !t.snapshot().State.Final() {
			t.fail(ctx.Err())
		}
		result.Tasks[i] = t.snapshot()
		if result.Tasks[i].State == Failed {
			failed++
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if failed > 0 {
		return result, fmt.Errorf("%d of %d %w", failed, len(tasks), ErrEpisodesFailed)
	}
	return result, nil
}

// runPool runs work for every task, admitting at most concurrency at a
// time; zero admits everything at once. Cancellation stops admission;
// work already running is waited out.
func runPool(ctx context.Context, tasks []*task, concurrency int, work func(*task)) {
	var admit chan struct{}
	if concurrency > 0 {
		admit = make(chan struct{}, concurrency)
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	for _, t := range tasks {
		if admit != nil {
			select {
			case admit <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		wg.Add(1)
		go func(t *task) {
			defer wg.Done()
			if admit != nil {
				defer func() { <-admit }()
			}
			work(t)
		}(t)
	}
}

// enumerate loads the series tree, preferring a fresh cached listing over
// another round of season scraping.
func enumerate(ctx context.Context, s *network.Session, ref *site.Ref) (*site.Entry, error) {
	if entry, ok := cache.Get(ref.SeriesURL()).Get(); ok {
		log.Infof("using cached listing for %s", entry.Title)
		return entry, nil
	}

	entry, err := site.Enumerate(ctx, s, ref)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(entry); err != nil {
		log.Warnf("failed to cache series listing: %s", err)
	}
	return entry, nil
}

// selection expands the request into the episodes to download. Explicit
// episode and season sets take precedence over the URL narrowing; a bare
// series URL selects everything, movies included.
func selection(entry *site.Entry, req Request) ([]*site.Episode, error) {
	picked, err := expand(entry, req)
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNothingSelected, entry.Title)
	}
	return picked, nil
}

func expand(entry *site.Entry, req Request) ([]*site.Episode, error) {
	if episodes, ok := req.Episodes.Get(); ok {
		season, err := entry.Season(req.Ref.Season.OrElse(1))
		if err != nil {
			return nil, err
		}
		var picked []*site.Episode
		for _, ep := range season.Episodes {
			if episodes.Contains(uint32(ep.Index)) {
				picked = append(picked, ep)
			}
		}
		return picked, nil
	}

	if seasons, ok := req.Seasons.Get(); ok {
		var picked []*site.Episode
		for _, season := range entry.Seasons {
			if seasons.Contains(uint32(season.Index)) {
				picked = append(picked, season.Episodes...)
			}
		}
		return picked, nil
	}

	if index, ok := req.Ref.Season.Get(); ok {
		season, err := entry.Season(index)
		if err != nil {
			return nil, err
		}
		if episode, ok := req.Ref.Episode.Get(); ok {
			for _, ep := range season.Episodes {
				if ep.Index == episode {
					return []*site.Episode{ep}, nil
				}
			}
			return nil, fmt.Errorf("season %d of %s has no episode %d", index, entry.Title, episode)
		}
		return season.Episodes, nil
	}

	var picked []*site.Episode
	for _, season := range entry.Seasons {
		picked = append(picked, season.Episodes...)
	}
	return picked, nil
}

// newRunner resolves the run's configuration once, up front. Locating
// ffmpeg may hit the network, so it happens here rather than per episode.
func newRunner(ctx context.Context, session *network.Session, req Request) (*runner, error) {
	priority, err := extract.PriorityFromConfig()
	if err != nil {
		return nil, err
	}

	r := &runner{
		session:  session,
		priority: priority,
		limiter:  network.NewLimiter(viper.GetInt64(key.DownloadsRateLimit)),
		retries:  viper.GetInt(key.DownloadsRetries),
		workers:  viper.GetInt(key.DownloadsSegmentWorkers),
		variant:  req.Variant,
		dir:      req.Dir,
		skip:     viper.GetBool(key.DownloadsSkipExisting),
	}
	if r.dir == "" {
		r.dir = viper.GetString(key.DownloadsPath)
	}

	if viper.GetBool(key.DownloadsRemux) {
		if binary, err := ffmpeg.Find(ctx, session); err != nil {
			log.Warnf("remuxing disabled: %s", err)
		} else {
			r.remux = mo.Some(binary)
		}
	}
	return r, nil
}
