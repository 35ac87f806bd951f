// Package filterbar renders the category index as a row of dropdowns and
// owns which dropdown is open and which filter is active.
package filterbar

import (
	"fmt"

	"github.com/iziplay/gallery/pkg/category"
	"github.com/iziplay/gallery/pkg/view"
)

// Selection is a chosen filter: every record, or the records of one place.
type Selection struct {
	All   bool
	Place string
}

// ShowAll clears the filter.
var ShowAll = Selection{All: true}

func (s Selection) String() string {
	if s.All {
		return category.All
	}
	return s.Place
}

// Clearer drops a pinned record selection.
type Clearer interface {
	Clear()
}

type dropdown struct {
	key    string
	node   *view.Node
	header *view.Node
	panel  *view.Node
	rows   map[string]*view.Node
}

type Bar struct {
	onSelect func(Selection)
	touch    Clearer

	root      *view.Node
	dropdowns []*dropdown
	byKey     map[string]*dropdown

	open   string
	active *Selection
}

// New creates an empty bar. onSelect runs for every filter activation.
func New(onSelect func(Selection), touch Clearer) *Bar {
	return &Bar{
		onSelect: onSelect,
		touch:    touch,
		root:     view.New("div", "container"),
		byKey:    map[string]*dropdown{},
	}
}

// Root is the node holding every dropdown.
func (b *Bar) Root() *view.Node {
	return b.root
}

// Render replaces the bar's contents with the buckets of ix and resets its
// open and active state.
func (b *Bar) Render(ix *category.Index) *view.Node {
	b.Clear()
	for _, key := range ix.Keys() {
		d := b.dropdown(key, ix.Places(key))
		b.dropdowns = append(b.dropdowns, d)
		b.byKey[key] = d
		b.root.Append(d.node)
	}
	return b.root
}

// Clear removes every dropdown.
func (b *Bar) Clear() {
	b.root.RemoveChildren()
	b.dropdowns = nil
	b.byKey = map[string]*dropdown{}
	b.open = ""
	b.active = nil
}

func (b *Bar) dropdown(key string, places []string) *dropdown {
	d := &dropdown{
		key:    key,
		node:   view.New("div", "dropdown"),
		header: view.New("li", "dropdown-btn"),
		panel:  view.New("div", "dropdown-content"),
		rows:   map[string]*view.Node{},
	}
	d.header.Text = key
	d.header.SetAttr("aria-label", fmt.Sprintf("filters results by locations beginning with: '%s'", key))
	view.Activatable(d.header, func(*view.Event) { b.HeaderActivate(key) })

	if key != category.All {
		for _, place := range places {
			row := view.New("li")
			row.Text = place
			row.SetAttr("aria-label", fmt.Sprintf("filters results by location: '%s'", place))
			view.Activatable(row, func(*view.Event) { b.PlaceActivate(place) })
			d.panel.Append(row)
			d.rows[place] = row
		}
	}

	d.node.Append(d.header, d.panel)
	return d
}

// HeaderActivate closes every other panel and toggles the panel of key.
// The All header has no panel and clears the filter instead.
func (b *Bar) HeaderActivate(key string) {
	d, ok := b.byKey[key]
	if !ok {
		return
	}
	wasOpen := b.open == key
	b.CloseAll()
	if key == category.All {
		b.AllActivate()
		return
	}
	if !wasOpen {
		b.open = key
		view.AddClass(d.panel, "show")
	}
}

// PlaceActivate closes the owning panel, clears the pinned record and
// selects place.
func (b *Bar) PlaceActivate(place string) {
	if d, ok := b.byKey[category.Key(place)]; ok {
		view.RemoveClass(d.panel, "show")
		if b.open == d.key {
			b.open = ""
		}
	}
	if b.touch != nil {
		b.touch.Clear()
	}
	b.selectFilter(Selection{Place: place})
}

// AllActivate selects every record.
func (b *Bar) AllActivate() {
	b.selectFilter(ShowAll)
}

func (b *Bar) selectFilter(sel Selection) {
	b.active = &sel
	if b.onSelect != nil {
		b.onSelect(sel)
	}
}

// CloseAll hides every open panel.
func (b *Bar) CloseAll() {
	for _, d := range b.dropdowns {
		view.RemoveClass(d.panel, "show")
	}
	b.open = ""
}

// Open returns the key of the open panel.
func (b *Bar) Open() (string, bool) {
	return b.open, b.open != ""
}

// Active returns the current filter.
func (b *Bar) Active() (Selection, bool) {
	if b.active == nil {
		return Selection{}, false
	}
	return *b.active, true
}

// Header returns the header node of a bucket.
func (b *Bar) Header(key string) *view.Node {
	if d, ok := b.byKey[key]; ok {
		return d.header
	}
	return nil
}

// Panel returns the collapsible panel of a bucket.
func (b *Bar) Panel(key string) *view.Node {
	if d, ok := b.byKey[key]; ok {
		return d.panel
	}
	return nil
}

// Row returns the node selecting place.
func (b *Bar) Row(place string) *view.Node {
	if d, ok := b.byKey[category.Key(place)]; ok {
		return d.rows[place]
	}
	return nil
}

// IsHeader reports whether n is one of the bar's headers.
func (b *Bar) IsHeader(n *view.Node) bool {
	for _, d := range b.dropdowns {
		if d.header == n {
			return true
		}
	}
	return false
}
