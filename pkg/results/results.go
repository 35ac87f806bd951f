// Package results runs searches against the collection and keeps the
// rendered cards, the filter bar and the active filter in step.
package results

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/iziplay/gallery/pkg/category"
	"github.com/iziplay/gallery/pkg/collection"
	"github.com/iziplay/gallery/pkg/device"
	"github.com/iziplay/gallery/pkg/filterbar"
	"github.com/iziplay/gallery/pkg/imageloader"
	"github.com/iziplay/gallery/pkg/loop"
	"github.com/iziplay/gallery/pkg/record"
	"github.com/iziplay/gallery/pkg/view"
	"github.com/iziplay/gallery/pkg/viewport"
)

// DefaultCardHeight is the laid-out height of a card in pixels.
const DefaultCardHeight = 300

// Searcher issues collection searches.
type Searcher interface {
	Search(ctx context.Context, query string) ([]collection.Record, error)
}

type Config struct {
	Assets     collection.Assets
	Device     device.Capabilities
	Dispatch   loop.Dispatch
	CardHeight int
}

// Controller owns one gallery session. Its methods, and callbacks from its
// nodes, must run on the presentation loop.
type Controller struct {
	searcher Searcher
	loader   *imageloader.Loader
	vp       *viewport.Viewport
	cfg      Config

	Root       *view.Node
	Records    *view.Node
	Categories *view.Node
	Message    *view.Node

	bar   *filterbar.Bar
	touch *record.TouchSelection
	cards []*record.Card
	index *category.Index

	seq atomic.Uint64
}

func New(searcher Searcher, loader *imageloader.Loader, vp *viewport.Viewport, cfg Config) *Controller {
	if cfg.Device == nil {
		cfg.Device = device.Pointer
	}
	if cfg.Dispatch == nil {
		cfg.Dispatch = loop.Inline
	}
	if cfg.CardHeight <= 0 {
		cfg.CardHeight = DefaultCardHeight
	}
	if cfg.Assets == (collection.Assets{}) {
		cfg.Assets = collection.DefaultAssets
	}

	c := &Controller{
		searcher:   searcher,
		loader:     loader,
		vp:         vp,
		cfg:        cfg,
		Root:       view.New("body"),
		Records:    view.New("div", "records"),
		Categories: view.New("div", "categories"),
		Message:    view.New("p", "errorMessage"),
		touch:      record.NewTouchSelection(cfg.Device),
	}
	c.Message.SetStyle("display", "none")
	c.bar = filterbar.New(c.Select, c.touch)
	c.Root.Append(c.Categories, c.Message, c.Records)
	c.Root.On(view.Click, c.HandleDocumentActivation)
	return c
}

// Search trims query and, when anything is left, searches and renders the
// results. The returned channel is closed once the response has been
// applied or dropped.
func (c *Controller) Search(ctx context.Context, query string) <-chan struct{} {
	done := make(chan struct{})
	query = strings.TrimSpace(query)
	if query == "" {
		close(done)
		return done
	}

	id := c.seq.Add(1)
	go func() {
		records, err := c.searcher.Search(ctx, query)
		c.cfg.Dispatch(func() {
			defer close(done)
			if id != c.seq.Load() {
				slog.Info("Dropping stale search response", "query", query)
				return
			}
			if err != nil {
				slog.Warn("Search failed", "query", query, "error", err)
				return
			}
			c.apply(query, records)
		})
	}()
	return done
}

func (c *Controller) apply(query string, records []collection.Record) {
	if len(records) == 0 {
		c.clear()
		c.Categories.RemoveChildren()
		c.index = nil
		c.Message.Text = fmt.Sprintf("No Content could be found for \"%s\" :(", query)
		c.Message.SetStyle("display", "block")
		return
	}

	c.Message.Text = ""
	c.Message.SetStyle("display", "none")
	c.clear()

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b collection.Record) int {
		return strings.Compare(a.PlaceName(), b.PlaceName())
	})

	env := record.Env{Assets: c.cfg.Assets, Loader: c.loader, Touch: c.touch}
	var places []string
	for i, r := range sorted {
		card := record.New(r, env)
		c.cards = append(c.cards, card)
		c.Records.Append(card.Node)
		if c.vp != nil {
			c.vp.Place(card.Node, i*c.cfg.CardHeight, c.cfg.CardHeight)
		}
		if collection.Present(r.Place) {
			places = append(places, r.PlaceName())
		}
	}

	c.index = category.Build(category.Distinct(places))
	c.Categories.RemoveChildren()
	c.Categories.Append(c.bar.Render(c.index))

	if c.vp != nil {
		c.vp.Refresh()
	}
	slog.Debug("Rendered search results", "query", query, "records", len(c.cards), "buckets", c.index.Len())
}

// clear discards the rendered cards and the filter bar state.
func (c *Controller) clear() {
	for _, card := range c.cards {
		if c.loader != nil {
			c.loader.Detach(card.Image)
		}
		if c.vp != nil {
			c.vp.Forget(card.Node)
		}
	}
	c.cards = nil
	c.touch.Forget()
	c.bar.Clear()
	c.Records.RemoveChildren()
}

// Select applies a filter: matching cards become active, the rest inactive,
// and the viewport scrolls to the first match.
func (c *Controller) Select(sel filterbar.Selection) {
	if sel.All {
		for _, card := range c.cards {
			card.Activate()
		}
		if len(c.cards) > 0 {
			c.scrollTo(c.cards[0])
		}
		return
	}

	tag := record.Tag(sel.Place)
	var first *record.Card
	for _, card := range c.cards {
		if !card.Matches(tag) {
			card.Deactivate()
		}
	}
	for _, card := range c.cards {
		if card.Matches(tag) {
			card.Activate()
			if first == nil {
				first = card
			}
		}
	}
	if first != nil {
		c.scrollTo(first)
	}
}

func (c *Controller) scrollTo(card *record.Card) {
	if c.vp != nil {
		c.vp.ScrollTo(card.Node)
	}
}

// HandleDocumentActivation closes every dropdown panel when something other
// than a dropdown header is activated.
func (c *Controller) HandleDocumentActivation(e *view.Event) {
	if c.bar.IsHeader(e.Target) {
		return
	}
	c.bar.CloseAll()
}

// Cards returns the rendered cards in display order.
func (c *Controller) Cards() []*record.Card {
	return slices.Clone(c.cards)
}

// Index is the category index of the current results, nil before the
// first results and after an empty search.
func (c *Controller) Index() *category.Index {
	return c.index
}

func (c *Controller) Bar() *filterbar.Bar {
	return c.bar
}

func (c *Controller) Touch() *record.TouchSelection {
	return c.touch
}

// Notice returns the message shown to the user, if visible.
func (c *Controller) Notice() (string, bool) {
	return c.Message.Text, c.Message.Style("display") == "block"
}
