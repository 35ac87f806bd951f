package view

import (
	"slices"

	"github.com/google/uuid"
)

// Node is a headless visual node: a tag, its CSS-like classes, attributes,
// data attributes, inline style and children. Nodes are not safe for
// concurrent use; the presentation engine mutates them from a single loop.
type Node struct {
	ID       string
	Tag      string
	Text     string
	TabIndex int

	classes  []string
	attrs    map[string]string
	dataset  map[string]string
	style    map[string]string
	parent   *Node
	children []*Node
	handlers map[EventType][]Handler
}

// New creates a node that is not part of the tab order.
func New(tag string, classes ...string) *Node {
	n := &Node{
		ID:       uuid.NewString(),
		Tag:      tag,
		TabIndex: -1,
		attrs:    map[string]string{},
		dataset:  map[string]string{},
		style:    map[string]string{},
		handlers: map[EventType][]Handler{},
	}
	AddClass(n, classes...)
	return n
}

// Focusable reports whether the node is reachable with the tab key.
func (n *Node) Focusable() bool {
	return n.TabIndex >= 0
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Append attaches children in order, detaching them from any previous parent.
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches child and reports whether it was a child of n.
func (n *Node) Remove(child *Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

// RemoveChildren detaches every child.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first node in the subtree carrying the class.
func (n *Node) Find(class string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if HasClass(c, class) {
			found = c
			return false
		}
		return true
	})
	return found
}

func (n *Node) SetAttr(key, value string) {
	n.attrs[key] = value
}

func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

func (n *Node) RemoveAttr(key string) {
	delete(n.attrs, key)
}

// SetData sets a data-* attribute.
func (n *Node) SetData(key, value string) {
	n.dataset[key] = value
}

func (n *Node) Data(key string) (string, bool) {
	v, ok := n.dataset[key]
	return v, ok
}

func (n *Node) SetStyle(property, value string) {
	n.style[property] = value
}

func (n *Node) Style(property string) string {
	return n.style[property]
}
