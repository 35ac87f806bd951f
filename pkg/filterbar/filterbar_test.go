package filterbar

import (
	"testing"

	"github.com/iziplay/gallery/pkg/category"
	"github.com/iziplay/gallery/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clearCounter struct{ n int }

func (c *clearCounter) Clear() { c.n++ }

func newBar(t *testing.T) (*Bar, *[]Selection, *clearCounter) {
	t.Helper()
	var got []Selection
	touch := &clearCounter{}
	b := New(func(s Selection) { got = append(got, s) }, touch)
	b.Render(category.Build([]string{"Egypt", "England", "Leeds", "York"}))
	return b, &got, touch
}

func headers(b *Bar) []string {
	var out []string
	for _, d := range b.Root().Children() {
		out = append(out, d.Children()[0].Text)
	}
	return out
}

func TestRender(t *testing.T) {
	b, _, _ := newBar(t)

	assert.Equal(t, []string{"All", "E", "L", "Y"}, headers(b))
	assert.Empty(t, b.Panel(category.All).Children())
	require.Len(t, b.Panel("E").Children(), 2)
	assert.Equal(t, "England", b.Panel("E").Children()[1].Text)

	for _, key := range []string{"All", "E", "L", "Y"} {
		assert.True(t, b.Header(key).Focusable(), key)
		assert.True(t, b.IsHeader(b.Header(key)))
	}
	assert.True(t, b.Row("York").Focusable())
	assert.False(t, b.IsHeader(b.Row("York")))
	label, _ := b.Row("York").Attr("aria-label")
	assert.Equal(t, "filters results by location: 'York'", label)
}

func TestOnlyOnePanelOpen(t *testing.T) {
	b, _, _ := newBar(t)

	b.Header("E").Click()
	key, ok := b.Open()
	assert.True(t, ok)
	assert.Equal(t, "E", key)
	assert.True(t, view.HasClass(b.Panel("E"), "show"))

	b.Header("L").Press(view.KeyEnter)
	key, _ = b.Open()
	assert.Equal(t, "L", key)
	assert.False(t, view.HasClass(b.Panel("E"), "show"))
	assert.True(t, view.HasClass(b.Panel("L"), "show"))

	b.Header("L").Press(view.KeySpace)
	_, ok = b.Open()
	assert.False(t, ok)
	assert.False(t, view.HasClass(b.Panel("L"), "show"))
}

func TestPlaceActivate(t *testing.T) {
	b, got, touch := newBar(t)

	b.Header("Y").Click()
	b.Row("York").Press(view.KeyEnter)

	assert.Equal(t, []Selection{{Place: "York"}}, *got)
	assert.False(t, view.HasClass(b.Panel("Y"), "show"))
	_, open := b.Open()
	assert.False(t, open)
	assert.Equal(t, 1, touch.n)

	active, ok := b.Active()
	assert.True(t, ok)
	assert.Equal(t, "York", active.String())
}

func TestAllHeader(t *testing.T) {
	b, got, touch := newBar(t)

	b.Header("E").Click()
	b.Header(category.All).Click()

	assert.Equal(t, []Selection{ShowAll}, *got)
	_, open := b.Open()
	assert.False(t, open)
	assert.Zero(t, touch.n)
	active, _ := b.Active()
	assert.True(t, active.All)
}

func TestRenderResetsState(t *testing.T) {
	b, _, _ := newBar(t)
	b.Header("E").Click()
	b.Row("Egypt").Click()

	b.Render(category.Build([]string{"Paris"}))
	_, open := b.Open()
	assert.False(t, open)
	_, active := b.Active()
	assert.False(t, active)
	assert.Equal(t, []string{"All", "P"}, headers(b))
	assert.Nil(t, b.Header("E"))
}

func TestCloseAll(t *testing.T) {
	b, _, _ := newBar(t)
	b.Header("E").Click()
	b.CloseAll()
	assert.False(t, view.HasClass(b.Panel("E"), "show"))
}
