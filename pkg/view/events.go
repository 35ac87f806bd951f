package view

type EventType string

const (
	Click   EventType = "click"
	KeyDown EventType = "keydown"
)

// Keys that activate a focused node like a pointer click.
const (
	KeySpace = " "
	KeyEnter = "Enter"
)

type Event struct {
	Type   EventType
	Key    string
	Target *Node

	stopped bool
}

// StopPropagation keeps the event from reaching ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

type Handler func(e *Event)

// On registers h for events of type t dispatched on or bubbled to n.
func (n *Node) On(t EventType, h Handler) {
	n.handlers[t] = append(n.handlers[t], h)
}

// Dispatch delivers e to n and then to each ancestor until stopped.
func (n *Node) Dispatch(e *Event) {
	if e.Target == nil {
		e.Target = n
	}
	for cur := n; cur != nil && !e.stopped; cur = cur.parent {
		for _, h := range cur.handlers[e.Type] {
			h(e)
		}
	}
}

// Click dispatches a pointer activation.
func (n *Node) Click() {
	n.Dispatch(&Event{Type: Click})
}

// Press dispatches a keydown for key.
func (n *Node) Press(key string) {
	n.Dispatch(&Event{Type: KeyDown, Key: key})
}

// Activatable puts n in the tab order and runs h on pointer activation.
// Space and Enter on the focused node are treated as a click.
func Activatable(n *Node, h Handler) {
	n.TabIndex = 0
	n.On(Click, func(e *Event) {
		if e.Target == n {
			h(e)
		}
	})
	n.On(KeyDown, func(e *Event) {
		if e.Target != n {
			return
		}
		if e.Key == KeySpace || e.Key == KeyEnter {
			n.Click()
		}
	})
}
