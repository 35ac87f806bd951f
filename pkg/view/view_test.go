package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassHelpers(t *testing.T) {
	n := New("div", "record", "active", "record")
	assert.Equal(t, []string{"record", "active"}, Classes(n))

	AddClass(n, "inactive")
	assert.True(t, HasClass(n, "inactive"))

	RemoveClass(n, "active")
	assert.False(t, HasClass(n, "active"))
	RemoveClass(n, "missing")

	assert.True(t, ToggleClass(n, "show"))
	assert.False(t, ToggleClass(n, "show"))
	assert.Equal(t, []string{"record", "inactive"}, Classes(n))
}

func TestAppendReparents(t *testing.T) {
	a, b, c := New("div"), New("div"), New("span")
	a.Append(c)
	b.Append(c)

	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{c}, b.Children())
	assert.Same(t, b, c.Parent())
	assert.True(t, b.Contains(c))
	assert.False(t, a.Contains(c))

	b.RemoveChildren()
	assert.Nil(t, c.Parent())
}

func TestFind(t *testing.T) {
	root := New("div")
	front := New("div", "front")
	img := New("img", "recordImage")
	front.Append(img)
	root.Append(front)

	assert.Same(t, img, root.Find("recordImage"))
	assert.Nil(t, root.Find("progressBar"))
}

func TestDispatchBubbles(t *testing.T) {
	root, mid, leaf := New("div"), New("div"), New("li")
	root.Append(mid)
	mid.Append(leaf)

	var seen []string
	root.On(Click, func(e *Event) {
		assert.Same(t, leaf, e.Target)
		seen = append(seen, "root")
	})
	mid.On(Click, func(e *Event) { seen = append(seen, "mid") })

	leaf.Click()
	assert.Equal(t, []string{"mid", "root"}, seen)

	seen = nil
	mid.On(Click, func(e *Event) { e.StopPropagation() })
	leaf.Click()
	assert.Equal(t, []string{"mid"}, seen)
}

func TestActivatableKeyboardParity(t *testing.T) {
	n := New("li")
	calls := 0
	Activatable(n, func(e *Event) { calls++ })

	assert.True(t, n.Focusable())

	n.Click()
	n.Press(KeySpace)
	n.Press(KeyEnter)
	n.Press("Escape")
	assert.Equal(t, 3, calls)
}

func TestActivatableIgnoresBubbledClicks(t *testing.T) {
	parent, child := New("div"), New("li")
	parent.Append(child)
	calls := 0
	Activatable(parent, func(e *Event) { calls++ })

	child.Click()
	child.Press(KeyEnter)
	assert.Zero(t, calls)
}
