package hls

import (
	"context"
	"fmt"
	"io"

	"github.com/sdl-cli/sdl/media"
	"github.com/sdl-cli/sdl/network"
)

// Retrier re-runs op according to the caller's retry policy. It is
// applied around every segment and key request so one flaky fetch does
// not restart the whole stream.
type Retrier func(ctx context.Context, op func(context.Context) error) error

// Options configure one stream assembly.
type Options struct {
	// Workers bounds how many segments are fetched at the same time.
	// Values below one behave like one.
	Workers int
	// Limiter paces payload reads; nil means unlimited.
	Limiter *network.Limiter
	// Retry wraps each segment and key request; nil means one attempt.
	Retry Retrier
	// OnBytes observes payload bytes as they arrive. Called from the
	// fetch workers, so it must be safe for concurrent use.
	OnBytes func(n int)
	// OnSegment fires after a segment has been written out. Segments
	// are written in manifest order, so it fires in order too.
	OnSegment func(seg Segment)
}

// Assemble downloads every segment of stream and writes them to w in
// manifest order. Fetches fan out over Workers goroutines; a finished
// segment waits in its buffer slot until every earlier one is written,
// and a new fetch starts only when a slot frees up, so at most Workers
// segment payloads are in memory at once.
func Assemble(ctx context.Context, session *network.Session, desc media.Descriptor, stream *Stream, w io.Writer, opts Options) error {
	if len(stream.Segments) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyStream, desc.URL)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(stream.Segments) {
		workers = len(stream.Segments)
	}
	retry := opts.Retry
	if retry == nil {
		retry = func(ctx context.Context, op func(context.Context) error) error {
			return op(ctx)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := &assembly{
		session: session,
		desc:    desc,
		limiter: opts.Limiter,
		retry:   retry,
		onBytes: opts.OnBytes,
		keys:    newKeyCache(session, desc.Referer, desc.Headers, retry),
	}

	ready := make([]chan piece, len(stream.Segments))
	for i := range ready {
		ready[i] = make(chan piece, 1)
	}
	admit := make(chan struct{}, workers)

	go func() {
		for i, seg := range stream.Segments {
			select {
			case admit <- struct{}{}:
			case <-ctx.Done():
				return
			}
			go func(i int, seg Segment) {
				data, err := a.fetchSegment(ctx, seg)
				ready[i] <- piece{data: data, err: err}
			}(i, seg)
		}
	}()

	for i, seg := range stream.Segments {
		var p piece
		select {
		case p = <-ready[i]:
		case <-ctx.Done():
			return ctx.Err()
		}
		<-admit

		if p.err != nil {
			return fmt.Errorf("segment %d failed: %w", seg.Index, p.err)
		}
		if _, err := w.Write(p.data); err != nil {
			return fmt.Errorf("failed to write segment %d: %w", seg.Index, err)
		}
		if opts.OnSegment != nil {
			opts.OnSegment(seg)
		}
	}
	return nil
}

type piece struct {
	data []byte
	err  error
}

type assembly struct {
	session *network.Session
	desc    media.Descriptor
	limiter *network.Limiter
	retry   Retrier
	onBytes func(n int)
	keys    *keyCache
}

func (a *assembly) fetchSegment(ctx context.Context, seg Segment) ([]byte, error) {
	var data []byte
	err := a.retry(ctx, func(ctx context.Context) error {
		var fetchErr error
		data, fetchErr = a.download(ctx, seg)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if seg.Key == nil {
		return data, nil
	}

	key, err := a.keys.get(ctx, seg.Key.URI)
	if err != nil {
		return nil, err
	}
	iv, err := segmentIV(seg.Key, seg.Index)
	if err != nil {
		return nil, err
	}
	return decryptSegment(key, iv, data)
}

func (a *assembly) download(ctx context.Context, seg Segment) ([]byte, error) {
	req := network.Request{URL: seg.URI, Referer: a.desc.Referer}
	if len(a.desc.Headers) > 0 || seg.ByteRange.IsPresent() {
		headers := make(map[string]string, len(a.desc.Headers)+1)
		for name, value := range a.desc.Headers {
			headers[name] = value
		}
		if br, ok := seg.ByteRange.Get(); ok {
			headers["Range"] = fmt.Sprintf("bytes=%d-%d", br.Offset, br.Offset+br.Length-1)
		}
		req.Headers = headers
	}

	resp, err := a.session.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := network.EnsureSuccess(resp); err != nil {
		return nil, err
	}

	reader := a.limiter.Reader(ctx, io.Reader(resp.Body))
	if a.onBytes != nil {
		reader = &countingReader{r: reader, onBytes: a.onBytes}
	}
	return io.ReadAll(reader)
}

type countingReader struct {
	r       io.Reader
	onBytes func(int)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.onBytes(n)
	}
	return n, err
}
