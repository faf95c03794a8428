package network

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// pacing granularity; the bucket burst never drops below this so a full
// read of one chunk can always be paid for.
const limiterChunk = 32 << 10

// Limiter caps aggregate transfer speed in bytes per second. One limiter
// is shared by every concurrent download of a run. A nil *Limiter imposes
// no limit, so callers never branch.
type Limiter struct {
	bucket *rate.Limiter
}

// NewLimiter builds a limiter for bytesPerSecond. Zero or negative means
// unlimited and yields nil.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}
	burst := int(bytesPerSecond)
	if burst < limiterChunk {
		burst = limiterChunk
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(bytesPerSecond), burst)}
}

// Reader paces reads from r against the shared budget. Pacing stops when
// ctx is cancelled.
func (l *Limiter) Reader(ctx context.Context, r io.Reader) io.Reader {
	if l == nil {
		return r
	}
	return &pacedReader{ctx: ctx, r: r, bucket: l.bucket}
}

type pacedReader struct {
	ctx    context.Context
	r      io.Reader
	bucket *rate.Limiter
}

func (p *pacedReader) Read(buf []byte) (int, error) {
	if len(buf) > limiterChunk {
		buf = buf[:limiterChunk]
	}
	n, err := p.r.Read(buf)
	if n > 0 {
		if waitErr := p.bucket.WaitN(p.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}
