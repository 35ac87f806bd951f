package record

import "github.com/iziplay/gallery/pkg/device"

// Transition is a card gaining or losing the touched mark.
type Transition struct {
	Card    *Card
	Touched bool
}

// TouchSelection pins at most one card open on touch devices, where hover
// is unavailable. On other devices it does nothing.
type TouchSelection struct {
	probe    device.Capabilities
	current  *Card
	onChange func(Transition)
}

func NewTouchSelection(probe device.Capabilities) *TouchSelection {
	return &TouchSelection{probe: probe}
}

// OnChange registers fn to observe every transition.
func (s *TouchSelection) OnChange(fn func(Transition)) {
	s.onChange = fn
}

// Current returns the touched card, if any.
func (s *TouchSelection) Current() *Card {
	return s.current
}

// Toggle handles an activation of c. Activating the touched card clears it;
// activating another card moves the mark to it.
func (s *TouchSelection) Toggle(c *Card) {
	if !s.probe.Touch() {
		return
	}
	prev := s.current
	s.clear()
	if prev != c {
		s.current = c
		s.set(c, true)
	}
}

// Clear removes the mark from the touched card.
func (s *TouchSelection) Clear() {
	if !s.probe.Touch() {
		return
	}
	s.clear()
}

// Forget drops the mark without a transition, for cards being discarded.
func (s *TouchSelection) Forget() {
	s.current = nil
}

func (s *TouchSelection) clear() {
	if s.current == nil {
		return
	}
	prev := s.current
	s.current = nil
	s.set(prev, false)
}

func (s *TouchSelection) set(c *Card, on bool) {
	c.setTouched(on)
	if s.onChange != nil {
		s.onChange(Transition{Card: c, Touched: on})
	}
}
