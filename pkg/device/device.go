// Package device holds the single touch-capability probe consulted by
// interaction handlers.
package device

// Capabilities is consulted once per interaction.
type Capabilities interface {
	Touch() bool
}

// Probe describes what the host reported about pointer input.
type Probe struct {
	TouchEvents    bool
	MaxTouchPoints int
}

// Touch reports a touch-capable device. Viewport size plays no part.
func (p Probe) Touch() bool {
	return p.TouchEvents || p.MaxTouchPoints > 0
}

// Pointer is a hover-capable device without touch input.
var Pointer = Probe{}
