package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/mo"
	"github.com/sdl-cli/sdl/extract"
	"github.com/sdl-cli/sdl/ffmpeg"
	"github.com/sdl-cli/sdl/filesystem"
	"github.com/sdl-cli/sdl/history"
	"github.com/sdl-cli/sdl/hls"
	"github.com/sdl-cli/sdl/lang"
	"github.com/sdl-cli/sdl/log"
	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
	"github.com/sdl-cli/sdl/output"
	"github.com/sdl-cli/sdl/site"
	"github.com/sdl-cli/sdl/util"
)

const copyBufferSize = 64 << 10

// runner carries the per-run state shared by every task: the session, the
// byte limiter and the resolved configuration.
type runner struct {
	session  *network.Session
	priority extract.Priority
	limiter  *network.Limiter
	retries  int
	workers  int
	variant  lang.Variant
	dir      string
	skip     bool
	remux    mo.Option[string]
}

// download drives one task from admission to a final state.
func (r *runner) download(ctx context.Context, t *task) {
	if err := ctx.Err(); err != nil {
		t.fail(err)
		return
	}
	t.run()
	r.episode(ctx, t)
}

// episode resolves and fetches one episode. Every terminal transition of
// the task happens here.
func (r *runner) episode(ctx context.Context, t *task) {
	ep := t.episode

	// A pinned-down variant fixes the filename before any page fetch,
	// so the skip check can run without touching the site.
	if r.skip && r.variant.Concrete() {
		stem := episodeStem(ep, r.variant)
		if path, ok := r.existing(stem); ok {
			t.setName(stem)
			r.skipExisting(t, path)
			return
		}
	}

	var page *site.EpisodePage
	err := r.attempt(ctx, t, func(ctx context.Context) error {
		var err error
		page, err = site.Variants(ctx, r.session, ep)
		return err
	})
	if err != nil {
		t.fail(fmt.Errorf("failed to load episode page: %w", err))
		return
	}

	option, ok := page.Pick(r.variant)
	if !ok {
		t.skip("no matching language variant")
		return
	}

	stem := episodeStem(ep, option.Variant)
	t.setName(stem)

	if r.skip {
		if path, ok := r.existing(stem); ok {
			r.skipExisting(t, path)
			return
		}
	}

	var desc *media.Descriptor
	err = r.attempt(ctx, t, func(ctx context.Context) error {
		var err error
		desc, err = extract.Dispatch(ctx, r.session, option.Handles, r.priority)
		return err
	})
	if err != nil {
		t.fail(err)
		return
	}

	path, err := r.fetch(ctx, t, stem, *desc)
	if err != nil {
		t.fail(err)
		return
	}

	r.record(t, ep, option.Variant, path)
	t.succeed(path)
}

// record appends the finished episode to the download history. History is
// bookkeeping; its failures never touch the task's outcome.
func (r *runner) record(t *task, ep *site.Episode, variant lang.Variant, path string) {
	size := t.done.Load()
	if info, err := filesystem.API().Stat(path); err == nil {
		size = info.Size()
	}

	err := history.Save(&history.Record{
		Series:    ep.Season.Entry.Title,
		SeriesURL: ep.Season.Entry.URL,
		Season:    ep.Season.Index,
		Episode:   ep.Index,
		Variant:   variant.String(),
		Path:      path,
		Size:      size,
	})
	if err != nil {
		log.Warnf("failed to record download history: %s", err)
	}
}

func (r *runner) skipExisting(t *task, path string) {
	log.Infof("skipping %s, already downloaded", filepath.Base(path))
	t.skip("already downloaded: " + filepath.Base(path))
}

// existing reports a finished file for the stem, remuxed or raw.
func (r *runner) existing(stem string) (string, bool) {
	for _, ext := range []string{".mp4", ".ts"} {
		path := filepath.Join(r.dir, stem+ext)
		if output.Exists(path) {
			return path, true
		}
	}
	return "", false
}

// attempt wraps an operation in the run's retry policy and mirrors the
// tries into the task's state.
func (r *runner) attempt(ctx context.Context, t *task, op func(context.Context) error) error {
	return retry(ctx, r.retries, t.retrying, func(ctx context.Context) error {
		t.resume()
		return op(ctx)
	})
}

// retrier adapts attempt for segment and key fetches during assembly.
func (r *runner) retrier(t *task) hls.Retrier {
	return func(ctx context.Context, op func(context.Context) error) error {
		return r.attempt(ctx, t, op)
	}
}

// fetch downloads the resolved media to its final place and returns the
// path.
func (r *runner) fetch(ctx context.Context, t *task, stem string, desc media.Descriptor) (string, error) {
	if desc.Kind == media.HLS {
		return r.fetchStream(ctx, t, stem, desc)
	}
	return r.fetchDirect(ctx, t, filepath.Join(r.dir, stem+".mp4"), desc)
}

// fetchStream assembles an HLS stream into a TS file and hands it to the
// remux step. The byte total is a running estimate from the duration
// already covered, settled once the stream is complete.
func (r *runner) fetchStream(ctx context.Context, t *task, stem string, desc media.Descriptor) (string, error) {
	var stream *hls.Stream
	err := r.attempt(ctx, t, func(ctx context.Context) error {
		var err error
		stream, err = hls.Fetch(ctx, r.session, desc)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch playlist: %w", err)
	}

	path := filepath.Join(r.dir, stem+".ts")
	file, err := output.New(path)
	if err != nil {
		return "", err
	}
	defer file.Discard()

	total := stream.Duration()
	var covered float64
	err = hls.Assemble(ctx, r.session, desc, stream, file, hls.Options{
		Workers: r.workers,
		Limiter: r.limiter,
		Retry:   r.retrier(t),
		OnBytes: t.addBytes,
		OnSegment: func(seg hls.Segment) {
			covered += seg.Duration
			if covered > 0 && total > 0 {
				t.setTotal(int64(float64(t.done.Load()) * total / covered))
			}
		},
	})
	if err != nil {
		return "", err
	}
	if err := file.Commit(); err != nil {
		return "", err
	}
	t.setTotal(t.done.Load())

	return r.remuxed(ctx, path)
}

// remuxed converts a finished TS into an MP4 container when remuxing is
// on. A failed remux keeps the TS; the episode still counts as done.
func (r *runner) remuxed(ctx context.Context, path string) (string, error) {
	binary, ok := r.remux.Get()
	if !ok {
		return path, nil
	}

	remuxedPath := strings.TrimSuffix(path, ".ts") + ".mp4"
	if err := ffmpeg.Remux(ctx, binary, path, remuxedPath); err != nil {
		log.Warnf("failed to remux %s, keeping the transport stream: %s", filepath.Base(path), err)
		return path, nil
	}
	if err := filesystem.API().Remove(path); err != nil {
		log.Warnf("failed to remove %s after remux: %s", filepath.Base(path), err)
	}
	return remuxedPath, nil
}

// fetchDirect downloads a plain file. Bytes persisted by earlier tries
// are kept and the remainder requested by range.
func (r *runner) fetchDirect(ctx context.Context, t *task, path string, desc media.Descriptor) (string, error) {
	file, err := output.New(path)
	if err != nil {
		return "", err
	}
	defer file.Discard()

	err = r.attempt(ctx, t, func(ctx context.Context) error {
		return r.directAttempt(ctx, t, file, desc)
	})
	if err != nil {
		return "", err
	}
	if err := file.Commit(); err != nil {
		return "", err
	}
	return path, nil
}

// directAttempt performs one download try. A server that answers a range
// request with the whole body instead restarts the file from zero.
func (r *runner) directAttempt(ctx context.Context, t *task, file *output.File, desc media.Descriptor) error {
	req := network.Request{
		URL:     desc.URL,
		Referer: desc.Referer,
		Headers: make(map[string]string, len(desc.Headers)+1),
	}
	for name, value := range desc.Headers {
		req.Headers[name] = value
	}
	if file.Size() > 0 {
		req.Headers["Range"] = fmt.Sprintf("bytes=%d-", file.Size())
	}

	resp, err := r.session.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := network.EnsureSuccess(resp); err != nil {
		return err
	}

	if file.Size() > 0 && resp.StatusCode != http.StatusPartialContent {
		if err := file.Truncate(); err != nil {
			return err
		}
		t.resetBytes()
	}
	if resp.ContentLength > 0 {
		t.setTotal(file.Size() + resp.ContentLength)
	}

	body := r.limiter.Reader(ctx, resp.Body)
	buf := make([]byte, copyBufferSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return werr
			}
			t.addBytes(n)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// baseName is the series-and-number part shared by every name of the
// episode, "Demo Series - S01E05". The number is padded to the widest
// index of its season so files sort; a title that sanitizes away
// entirely is dropped.
func baseName(ep *site.Episode) string {
	width := 0
	if max := ep.Season.MaxEpisode(); max > 0 {
		width = len(strconv.Itoa(max))
	}
	code := fmt.Sprintf("S%02dE%s", ep.Season.Index, util.FormatEpisode(strconv.Itoa(ep.Index), width))

	if series := util.SanitizeFilename(ep.Season.Entry.Title); series != "" {
		return series + " - " + code
	}
	return code
}

// episodeStem is the download filename without its extension.
func episodeStem(ep *site.Episode, variant lang.Variant) string {
	return baseName(ep) + " - " + variant.String()
}
