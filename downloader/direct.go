package downloader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sdl-cli/sdl/extract"
	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
	"github.com/sdl-cli/sdl/output"
)

// timestampLayout names direct downloads by wall clock, millisecond
// precision included.
const timestampLayout = "2006-01-02_15-04-05.000"

// DirectRequest downloads a single hoster URL without a site adapter.
type DirectRequest struct {
	// URL is handed straight to the extractor registry.
	URL string
	// Extractor optionally names the extractor to use instead of matching
	// by URL.
	Extractor string
	// Dir overrides the configured download directory.
	Dir string
}

// RunDirect resolves one hoster URL and downloads it under a
// timestamp-derived name. The result holds a single task and no entry.
func RunDirect(ctx context.Context, req DirectRequest, opts Options) (*Result, error) {
	session := opts.Session
	if session == nil {
		var err error
		if session, err = network.FromConfig(); err != nil {
			return nil, err
		}
	}

	r, err := newRunner(ctx, session, Request{Dir: req.Dir})
	if err != nil {
		return nil, err
	}

	t := newTask(0, nil, req.URL, opts.OnUpdate)
	t.run()
	r.direct(ctx, t, req)

	snap := t.snapshot()
	result := &Result{Tasks: []Snapshot{snap}}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if snap.State == Failed {
		return result, snap.Err
	}
	return result, nil
}

func (r *runner) direct(ctx context.Context, t *task, req DirectRequest) {
	var desc *media.Descriptor
	err := r.attempt(ctx, t, func(ctx context.Context) error {
		var err error
		desc, err = extract.DispatchURL(ctx, r.session, req.URL, req.Extractor)
		return err
	})
	if err != nil {
		t.fail(err)
		return
	}

	stem := timestampStem(r.dir)
	t.setName(stem)

	path, err := r.fetch(ctx, t, stem, *desc)
	if err != nil {
		t.fail(err)
		return
	}
	t.succeed(path)
}

// timestampStem returns a wall-clock name that collides with nothing
// in dir.
func timestampStem(dir string) string {
	return collisionFree(dir, time.Now().Format(timestampLayout))
}

// collisionFree appends "-1", "-2", … to stem while a file with either
// extension is already taken in dir.
func collisionFree(dir, stem string) string {
	for i := 0; ; i++ {
		candidate := stem
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", stem, i)
		}
		if !output.Exists(filepath.Join(dir, candidate+".mp4")) && !output.Exists(filepath.Join(dir, candidate+".ts")) {
			return candidate
		}
	}
}
