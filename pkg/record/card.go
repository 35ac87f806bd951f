// Package record renders one search result as a two-sided card and tracks
// whether it is reachable under the current filter.
package record

import (
	"strconv"
	"strings"

	"github.com/iziplay/gallery/pkg/collection"
	"github.com/iziplay/gallery/pkg/imageloader"
	"github.com/iziplay/gallery/pkg/view"
)

// Activity is whether a card is reachable under the active filter.
type Activity int

const (
	Active Activity = iota
	Inactive
)

func (a Activity) String() string {
	if a == Inactive {
		return "inactive"
	}
	return "active"
}

// Env carries what cards need from their surroundings.
type Env struct {
	Assets collection.Assets
	Loader *imageloader.Loader
	Touch  *TouchSelection
}

type Card struct {
	Record collection.Record

	Node     *view.Node
	Image    *view.Node
	Progress *view.Node
	Source   *view.Node

	tag      string
	activity Activity
	touched  bool
	task     *imageloader.Task
}

// New builds the card for r. The image starts on its low resolution asset;
// the loader swaps it once the card scrolls into view.
func New(r collection.Record, env Env) *Card {
	c := &Card{
		Record:   r,
		Node:     view.New("div", "record", "active"),
		activity: Active,
	}
	c.Node.TabIndex = 0
	c.Node.SetAttr("aria-hidden", "false")

	if collection.Present(r.Place) {
		c.tag = Tag(*r.Place)
		c.Node.SetData("category", c.tag)
	}

	c.Node.Append(c.front(env), c.back(env.Assets))

	if env.Touch != nil {
		c.Node.On(view.Click, func(e *view.Event) {
			env.Touch.Toggle(c)
		})
	}
	return c
}

func (c *Card) front(env Env) *view.Node {
	front := view.New("div", "front")

	c.Image = view.New("img", "recordImage")
	c.Image.SetAttr("alt", AltText(c.Record))
	c.Image.TabIndex = 0

	c.Progress = view.New("div", "progressBar")
	front.Append(c.Image, view.New("div", "cover"), c.Progress)

	low, high := env.Assets.ImageURLs(c.Record.PrimaryImageID)
	if env.Loader == nil {
		c.Image.SetAttr("src", low)
		c.Image.SetData("src", high)
		return front
	}
	c.task = env.Loader.Attach(c.Image, low, high)
	c.task.OnProgress(c.showProgress)
	return front
}

// showProgress shrinks the progress bar as bytes arrive and removes it for
// good once the load settles.
func (c *Card) showProgress(p imageloader.Progress) {
	if c.Progress == nil {
		return
	}
	if p.State == imageloader.StateLoading && p.Percent < 100 {
		c.Progress.SetStyle("width", strconv.Itoa(p.Percent)+"%")
		return
	}
	if parent := c.Progress.Parent(); parent != nil {
		parent.Remove(c.Progress)
	}
	c.Progress = nil
}

func (c *Card) back(assets collection.Assets) *view.Node {
	back := view.New("div", "back")
	content := view.New("div", "content")
	categories := view.New("div", "categories")
	content.Append(categories)

	r := c.Record
	if r.Place != nil && *r.Place != "" {
		h := view.New("h4")
		h.Text = *r.Place
		categories.Append(h)
	}
	if r.Title != nil && *r.Title != "" {
		h := view.New("h3", "title")
		h.Text = *r.Title
		content.Append(h)
	}

	c.Source = view.New("a", "source")
	c.Source.SetAttr("href", "#")
	c.Source.TabIndex = 0
	if r.ObjectNumber != nil {
		c.Source.SetAttr("target", "_blank")
		c.Source.SetAttr("href", assets.SourceURL(*r.ObjectNumber))
		c.Source.Text = "view source"
	}

	if r.Object != nil && *r.Object != "" {
		content.Append(paragraph("Type: " + *r.Object))
	}
	if r.Location != nil && *r.Location != "" {
		content.Append(paragraph("Location: " + *r.Location))
	}
	// artist is shown whenever the key is present, even when empty
	if r.Artist != nil {
		content.Append(paragraph("By " + *r.Artist))
	}
	if r.DateText != nil && *r.DateText != "" {
		content.Append(paragraph("Made: " + *r.DateText))
	}

	content.Append(c.Source)
	back.Append(content)
	return back
}

func paragraph(text string) *view.Node {
	p := view.New("p")
	p.Text = text
	return p
}

// Tag is the normalised category of the card, empty when uncategorised.
func (c *Card) Tag() string {
	return c.tag
}

// Matches reports whether the card belongs to the filter tag.
func (c *Card) Matches(tag string) bool {
	return c.tag != "" && c.tag == tag
}

func (c *Card) Activity() Activity {
	return c.activity
}

// Task is the image load of the card, nil without a loader.
func (c *Card) Task() *imageloader.Task {
	return c.task
}

func (c *Card) Touched() bool {
	return c.touched
}

// Activate makes the card visible, reachable by tab and exposed to readers.
// It reports whether anything changed.
func (c *Card) Activate() bool {
	if c.activity == Active {
		return false
	}
	c.activity = Active
	view.RemoveClass(c.Node, "inactive")
	view.AddClass(c.Node, "active")
	c.expose(true)
	return true
}

// Deactivate hides the card from tab order and assistive technology while
// keeping it in the tree. It reports whether anything changed.
func (c *Card) Deactivate() bool {
	if c.activity == Inactive {
		return false
	}
	c.activity = Inactive
	view.RemoveClass(c.Node, "active")
	view.AddClass(c.Node, "inactive")
	c.expose(false)
	return true
}

func (c *Card) expose(on bool) {
	tab, hidden := 0, "false"
	if !on {
		tab, hidden = -1, "true"
	}
	for _, n := range []*view.Node{c.Node, c.Image, c.Source} {
		n.TabIndex = tab
	}
	c.Node.SetAttr("aria-hidden", hidden)
	c.Source.SetAttr("aria-hidden", hidden)
}

// Hidden reports whether the card is hidden from assistive technology.
func (c *Card) Hidden() bool {
	v, _ := c.Node.Attr("aria-hidden")
	return v == "true"
}

func (c *Card) setTouched(on bool) {
	c.touched = on
	c.Node.SetData("istouched", strconv.FormatBool(on))
}

// Summary is a one-line description used by text front ends.
func (c *Card) Summary() string {
	parts := []string{}
	for _, f := range []*string{c.Record.Title, c.Record.Object, c.Record.Place} {
		if collection.Present(f) {
			parts = append(parts, strings.TrimSpace(*f))
		}
	}
	if len(parts) == 0 {
		return c.Record.PrimaryImageID
	}
	return strings.Join(parts, " / ")
}
