package imageloader

import (
	"sync"

	"github.com/iziplay/gallery/pkg/view"
)

// State is the lifecycle of one image asset. Ready and Failed are terminal.
type State string

const (
	StatePending State = "PENDING"
	StateLoading State = "LOADING"
	StateReady   State = "READY"
	StateFailed  State = "FAILED"
)

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed
}

// Progress is a load state update.
type Progress struct {
	State    State `json:"state"`
	Received int64 `json:"received"`
	Total    int64 `json:"total"`
	Percent  int   `json:"percent"`
	Err      error `json:"-"`
}

// Task tracks the high resolution load of one node. Its accessors may be
// called from any goroutine; transitions happen on the loader's dispatch.
type Task struct {
	node *view.Node
	low  string
	high string

	mu          sync.RWMutex
	progress    Progress
	started     bool
	cancel      func()
	listeners   []func(Progress)
	subscribers []chan Progress
	done        chan struct{}
}

func newTask(node *view.Node, low, high string) *Task {
	return &Task{
		node:     node,
		low:      low,
		high:     high,
		progress: Progress{State: StatePending},
		done:     make(chan struct{}),
	}
}

func (t *Task) Node() *view.Node { return t.node }

// URLs returns the low and high resolution sources.
func (t *Task) URLs() (low, high string) { return t.low, t.high }

func (t *Task) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress.State
}

// Progress returns the latest update.
func (t *Task) Progress() Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// Err is set once the task has failed.
func (t *Task) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress.Err
}

// Done is closed when the task reaches a terminal state.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Started reports whether the high resolution fetch was ever issued.
func (t *Task) Started() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.started
}

// Cancel aborts an in-flight fetch. The task then fails.
func (t *Task) Cancel() {
	t.mu.RLock()
	cancel := t.cancel
	t.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// OnProgress registers fn to run on the loader's dispatch for every update.
func (t *Task) OnProgress(fn func(Progress)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

// Subscribe returns a channel of updates, starting with the current one, and
// a cleanup function. Slow readers miss intermediate updates; the channel is
// closed after the terminal update.
func (t *Task) Subscribe() (<-chan Progress, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch := make(chan Progress, 10)
	ch <- t.progress
	if t.progress.State.Terminal() {
		close(ch)
		return ch, func() {}
	}
	t.subscribers = append(t.subscribers, ch)
	cleanup := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, sub := range t.subscribers {
			if sub == ch {
				t.subscribers = append(t.subscribers[:i], t.subscribers[i+1:]...)
				break
			}
		}
	}
	return ch, cleanup
}

// begin marks the fetch as issued. It returns false when it already was or
// the task has settled.
func (t *Task) begin(cancel func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.progress.State.Terminal() {
		return false
	}
	t.started = true
	t.cancel = cancel
	t.progress = Progress{State: StateLoading}
	return true
}

func (t *Task) update(received, total int64) {
	percent := 0
	if total > 0 {
		percent = int(received * 100 / total)
		if percent > 100 {
			percent = 100
		}
	}
	t.publish(Progress{
		State:    StateLoading,
		Received: received,
		Total:    total,
		Percent:  percent,
	})
}

func (t *Task) ready(size int64) {
	t.publish(Progress{
		State:    StateReady,
		Received: size,
		Total:    size,
		Percent:  100,
	})
}

func (t *Task) fail(err error) {
	p := t.Progress()
	t.publish(Progress{
		State:    StateFailed,
		Received: p.Received,
		Total:    p.Total,
		Percent:  p.Percent,
		Err:      err,
	})
}

func (t *Task) publish(p Progress) {
	t.mu.Lock()
	if t.progress.State.Terminal() {
		t.mu.Unlock()
		return
	}
	t.progress = p
	listeners := make([]func(Progress), len(t.listeners))
	copy(listeners, t.listeners)
	subs := make([]chan Progress, len(t.subscribers))
	copy(subs, t.subscribers)
	terminal := p.State.Terminal()
	if terminal {
		t.subscribers = nil
		t.cancel = nil
	}
	t.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- p:
		default:
		}
		if terminal {
			close(ch)
		}
	}
	for _, fn := range listeners {
		fn(p)
	}
	if terminal {
		close(t.done)
	}
}
