package view

import "slices"

// AddClass adds every name not already present, keeping insertion order.
func AddClass(n *Node, names ...string) {
	for _, name := range names {
		if name == "" || slices.Contains(n.classes, name) {
			continue
		}
		n.classes = append(n.classes, name)
	}
}

// RemoveClass removes name if present.
func RemoveClass(n *Node, name string) {
	if i := slices.Index(n.classes, name); i >= 0 {
		n.classes = slices.Delete(n.classes, i, i+1)
	}
}

// ToggleClass flips name and reports whether it is present afterwards.
func ToggleClass(n *Node, name string) bool {
	if HasClass(n, name) {
		RemoveClass(n, name)
		return false
	}
	AddClass(n, name)
	return true
}

func HasClass(n *Node, name string) bool {
	return slices.Contains(n.classes, name)
}

// Classes returns a copy of the node's classes in insertion order.
func Classes(n *Node) []string {
	return slices.Clone(n.classes)
}
