package network

import (
	"context"
	"sync"
	"time"
)

// Throttle paces requests against protective site origins. Every request
// increments a shared counter; whenever the counter crosses a multiple of
// the configured threshold, a gate is armed and all subsequent requests
// block until the wait elapses. The triggering request itself is not
// delayed.
//
// A nil Throttle or a zero threshold disables pacing.
type Throttle struct {
	every uint64
	wait  time.Duration

	mu    sync.Mutex
	count uint64
	gate  time.Time
}

// NewThrottle builds a throttle waiting wait after every n requests.
func NewThrottle(n uint64, wait time.Duration) *Throttle {
	return &Throttle{every: n, wait: wait}
}

// Tick registers one request, blocking while an armed gate is open.
func (t *Throttle) Tick(ctx context.Context) error {
	if t == nil || t.every == 0 {
		return nil
	}

	// Holding the mutex across the wait funnels every concurrent request
	// behind the gate.
	t.mu.Lock()
	defer t.mu.Unlock()

	if remaining := time.Until(t.gate); remaining > 0 {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	t.count++
	if t.count%t.every == 0 {
		t.gate = time.Now().Add(t.wait)
	}
	return nil
}

// Count returns the number of requests registered so far.
func (t *Throttle) Count() uint64 {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
