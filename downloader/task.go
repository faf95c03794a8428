package downloader

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sdl-cli/sdl/site"
)

// State of a download task.
type State int

const (
	Pending State = iota
	Running
	Retrying
	Succeeded
	Failed
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Retrying:
		return "retrying"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Final reports whether a task in this state is done for good.
func (s State) Final() bool {
	return s == Succeeded || s == Failed || s == Skipped
}

// Snapshot is one task's observable state at a point in time.
type Snapshot struct {
	ID      int
	Name    string
	State   State
	Done    int64
	Total   int64
	Attempt int
	Path    string
	Err     error
	Note    string
}

// snapshotInterval paces byte-progress notifications, so a fast download
// does not flood the consumer.
const snapshotInterval = 100 * time.Millisecond

// task is one scheduled download working through the state machine.
type task struct {
	id      int
	episode *site.Episode

	done  atomic.Int64
	total atomic.Int64

	mu      sync.Mutex
	name    string
	state   State
	attempt int
	path    string
	err     error
	note    string

	notify   func(Snapshot)
	lastSent atomic.Int64
}

func newTask(id int, episode *site.Episode, name string, notify func(Snapshot)) *task {
	t := &task{id: id, episode: episode, name: name, notify: notify}
	t.emit()
	return t
}

func (t *task) snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		ID:      t.id,
		Name:    t.name,
		State:   t.state,
		Done:    t.done.Load(),
		Total:   t.total.Load(),
		Attempt: t.attempt,
		Path:    t.path,
		Err:     t.err,
		Note:    t.note,
	}
}

// emit pushes the current snapshot to the consumer.
func (t *task) emit() {
	if t.notify == nil {
		return
	}
	t.lastSent.Store(time.Now().UnixNano())
	t.notify(t.snapshot())
}

func (t *task) setName(name string) {
	t.mu.Lock()
	t.name = name
	t.mu.Unlock()
	t.emit()
}

func (t *task) run() {
	t.mu.Lock()
	t.state = Running
	t.mu.Unlock()
	t.emit()
}

// retrying records a failed try and moves the task into the backoff state.
// The next try flips it back to Running.
func (t *task) retrying(tries int, err error) {
	t.mu.Lock()
	t.state = Retrying
	t.attempt = tries
	t.err = err
	t.mu.Unlock()
	t.emit()
}

// resume returns a retrying task to Running for its next try. Used as the
// counterpart of retrying between backoff and request.
func (t *task) resume() {
	t.mu.Lock()
	if t.state != Retrying {
		t.mu.Unlock()
		return
	}
	t.state = Running
	t.mu.Unlock()
	t.emit()
}

func (t *task) succeed(path string) {
	t.mu.Lock()
	t.state = Succeeded
	t.path = path
	t.err = nil
	t.mu.Unlock()
	t.emit()
}

func (t *task) fail(err error) {
	t.mu.Lock()
	t.state = Failed
	t.err = err
	t.mu.Unlock()
	t.emit()
}

func (t *task) skip(reason string) {
	t.mu.Lock()
	t.state = Skipped
	t.note = reason
	t.mu.Unlock()
	t.emit()
}

// addBytes advances the progress counter. Snapshots go out at most every
// snapshotInterval; the final state transition flushes the rest.
func (t *task) addBytes(n int) {
	t.done.Add(int64(n))
	t.maybeEmit()
}

func (t *task) resetBytes() {
	t.done.Store(0)
	t.maybeEmit()
}

func (t *task) setTotal(n int64) {
	t.total.Store(n)
	t.maybeEmit()
}

func (t *task) maybeEmit() {
	if t.notify == nil {
		return
	}
	last := t.lastSent.Load()
	now := time.Now().UnixNano()
	if now-last < int64(snapshotInterval) {
		return
	}
	if t.lastSent.CompareAndSwap(last, now) {
		t.notify(t.snapshot())
	}
}
