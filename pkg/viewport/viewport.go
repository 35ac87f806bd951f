// Package viewport models the scrollable window over the rendered nodes and
// reports nodes entering it to intersection observers.
package viewport

import (
	"github.com/iziplay/gallery/pkg/view"
)

// Margin grows the observed area beyond the visible window, like a root margin.
type Margin struct {
	Top    int
	Bottom int
}

// DefaultMargin pre-fetches content 50px below the visible window.
var DefaultMargin = Margin{Bottom: 50}

type Entry struct {
	Node         *view.Node
	Intersecting bool
}

// Callback receives the entries whose intersection changed.
type Callback func(entries []Entry, o *Observer)

type box struct {
	top, height int
}

// Viewport is a vertical window of fixed height over laid-out nodes.
// A node without its own box takes the box of its nearest placed ancestor.
type Viewport struct {
	height    int
	scrollTop int
	boxes     map[*view.Node]box
	observers []*Observer
}

func New(height int) *Viewport {
	return &Viewport{
		height: height,
		boxes:  map[*view.Node]box{},
	}
}

// Place records the vertical extent of n.
func (v *Viewport) Place(n *view.Node, top, height int) {
	v.boxes[n] = box{top: top, height: height}
}

// Forget drops the layout of n.
func (v *Viewport) Forget(n *view.Node) {
	delete(v.boxes, n)
}

func (v *Viewport) ScrollTop() int {
	return v.scrollTop
}

func (v *Viewport) Height() int {
	return v.height
}

// ScrollTo scrolls until the bottom edge of n meets the bottom of the
// window, then notifies observers.
func (v *Viewport) ScrollTo(n *view.Node) {
	b, ok := v.boxOf(n)
	if !ok {
		return
	}
	top := b.top + b.height - v.height
	if top < 0 {
		top = 0
	}
	v.scrollTop = top
	v.Refresh()
}

// ScrollBy moves the window and notifies observers.
func (v *Viewport) ScrollBy(delta int) {
	v.scrollTop += delta
	if v.scrollTop < 0 {
		v.scrollTop = 0
	}
	v.Refresh()
}

// Visible reports whether n intersects the window grown by m.
func (v *Viewport) Visible(n *view.Node, m Margin) bool {
	b, ok := v.boxOf(n)
	if !ok {
		return false
	}
	lo := v.scrollTop - m.Top
	hi := v.scrollTop + v.height + m.Bottom
	return b.top < hi && b.top+b.height > lo
}

// Refresh recomputes intersections for every observer.
func (v *Viewport) Refresh() {
	for _, o := range v.observers {
		o.check()
	}
}

func (v *Viewport) boxOf(n *view.Node) (box, bool) {
	for p := n; p != nil; p = p.Parent() {
		if b, ok := v.boxes[p]; ok {
			return b, true
		}
	}
	return box{}, false
}

// Observer tracks a set of nodes against the viewport.
type Observer struct {
	vp       *Viewport
	margin   Margin
	callback Callback
	nodes    []*view.Node
	state    map[*view.Node]bool
}

// NewObserver registers an observer notified on Refresh and scrolling.
func (v *Viewport) NewObserver(m Margin, cb Callback) *Observer {
	o := &Observer{
		vp:       v,
		margin:   m,
		callback: cb,
		state:    map[*view.Node]bool{},
	}
	v.observers = append(v.observers, o)
	return o
}

// Observe starts tracking n. Its first entry is reported on the next check.
func (o *Observer) Observe(n *view.Node) {
	if _, ok := o.state[n]; ok {
		return
	}
	o.nodes = append(o.nodes, n)
	o.state[n] = false
}

func (o *Observer) Unobserve(n *view.Node) {
	if _, ok := o.state[n]; !ok {
		return
	}
	delete(o.state, n)
	for i, c := range o.nodes {
		if c == n {
			o.nodes = append(o.nodes[:i], o.nodes[i+1:]...)
			break
		}
	}
}

// Observing reports whether n is tracked.
func (o *Observer) Observing(n *view.Node) bool {
	_, ok := o.state[n]
	return ok
}

func (o *Observer) check() {
	var entries []Entry
	for _, n := range o.nodes {
		in := o.vp.Visible(n, o.margin)
		if in != o.state[n] {
			o.state[n] = in
			entries = append(entries, Entry{Node: n, Intersecting: in})
		}
	}
	if len(entries) > 0 {
		o.callback(entries, o)
	}
}
