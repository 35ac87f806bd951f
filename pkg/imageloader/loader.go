// Package imageloader swaps low resolution placeholders for high resolution
// images once their node comes near the viewport.
package imageloader

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iziplay/gallery/pkg/loop"
	"github.com/iziplay/gallery/pkg/view"
	"github.com/iziplay/gallery/pkg/viewport"
)

// FallbackImage is shown when an image cannot be loaded.
const FallbackImage = "./assets/images/404_ds.jpg"

var (
	// ErrNotAttached is returned for nodes the loader does not track.
	ErrNotAttached = errors.New("node not attached")

	// ErrDisplay is recorded when the rendering surface fails to show an asset.
	ErrDisplay = errors.New("image could not be displayed")

	// ErrDetached settles tasks whose node was detached mid-fetch.
	ErrDetached = errors.New("node detached")
)

// Fetcher downloads an asset, reporting bytes received against the expected
// total (-1 when unknown).
type Fetcher interface {
	Fetch(ctx context.Context, url string, progress func(received, total int64)) ([]byte, error)
}

type Loader struct {
	fetcher  Fetcher
	dispatch loop.Dispatch
	blobs    *Blobs
	margin   viewport.Margin
	ctx      context.Context

	observer *viewport.Observer
	tasks    map[*view.Node]*Task
}

type Option func(*Loader)

// WithDispatch routes fetch callbacks onto the presentation loop.
func WithDispatch(d loop.Dispatch) Option {
	return func(l *Loader) { l.dispatch = d }
}

// WithMargin changes how far outside the window loading starts.
func WithMargin(m viewport.Margin) Option {
	return func(l *Loader) { l.margin = m }
}

// WithContext bounds every fetch by ctx.
func WithContext(ctx context.Context) Option {
	return func(l *Loader) { l.ctx = ctx }
}

// New creates a loader observing nodes in vp.
func New(fetcher Fetcher, vp *viewport.Viewport, opts ...Option) *Loader {
	l := &Loader{
		fetcher:  fetcher,
		dispatch: loop.Inline,
		blobs:    NewBlobs(),
		margin:   viewport.DefaultMargin,
		ctx:      context.Background(),
		tasks:    map[*view.Node]*Task{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.observer = vp.NewObserver(l.margin, l.intersect)
	return l
}

// Blobs returns the store holding loaded assets.
func (l *Loader) Blobs() *Blobs {
	return l.blobs
}

// Attach shows low on node right away and fetches high once node
// intersects the viewport. Attaching the same node again returns its task.
func (l *Loader) Attach(node *view.Node, low, high string) *Task {
	if t, ok := l.tasks[node]; ok {
		return t
	}
	node.SetAttr("src", low)
	node.SetData("src", high)

	t := newTask(node, low, high)
	l.tasks[node] = t
	l.observer.Observe(node)
	return t
}

// Task returns the task attached to node.
func (l *Loader) Task(node *view.Node) (*Task, bool) {
	t, ok := l.tasks[node]
	return t, ok
}

// Detach stops observing node, aborts its in-flight fetch and releases its
// blob.
func (l *Loader) Detach(node *view.Node) {
	t, ok := l.tasks[node]
	if !ok {
		return
	}
	l.observer.Unobserve(node)
	delete(l.tasks, node)
	t.Cancel()
	if src, ok := node.Attr("src"); ok && t.State() == StateReady {
		l.blobs.Revoke(src)
	}
}

// Load starts the fetch for node as if it had intersected.
func (l *Loader) Load(node *view.Node) error {
	t, ok := l.tasks[node]
	if !ok {
		return ErrNotAttached
	}
	l.observer.Unobserve(node)
	l.start(t)
	return nil
}

// ReportError handles the rendering surface failing to display node's
// current asset: observation stops and the fallback is shown.
func (l *Loader) ReportError(node *view.Node) {
	t, ok := l.tasks[node]
	if !ok || t.State() == StateReady {
		return
	}
	l.observer.Unobserve(node)
	node.SetAttr("src", FallbackImage)
	t.Cancel()
	t.fail(ErrDisplay)
}

func (l *Loader) intersect(entries []viewport.Entry, o *viewport.Observer) {
	for _, e := range entries {
		if !e.Intersecting {
			continue
		}
		t, ok := l.tasks[e.Node]
		if !ok {
			continue
		}
		o.Unobserve(e.Node)
		l.start(t)
	}
}

func (l *Loader) start(t *Task) {
	ctx, cancel := context.WithCancel(l.ctx)
	if !t.begin(cancel) {
		cancel()
		return
	}

	slog.Debug("Fetching image", "url", t.high)
	go func() {
		defer cancel()
		data, err := l.fetcher.Fetch(ctx, t.high, func(received, total int64) {
			l.dispatch(func() { t.update(received, total) })
		})
		l.dispatch(func() {
			if l.tasks[t.node] != t {
				t.fail(ErrDetached)
				return
			}
			if err != nil {
				slog.Warn("Image fetch failed", "url", t.high, "error", err)
				t.node.SetAttr("src", FallbackImage)
				t.fail(err)
				return
			}
			// the node may have failed to display meanwhile
			if t.State().Terminal() {
				return
			}
			t.node.SetAttr("src", l.blobs.Put(data))
			t.ready(int64(len(data)))
		})
	}()
}
