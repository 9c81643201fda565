// Package gesture implements the pointer-driven drag and resize controllers
// of the chat window.
//
// A controller is idle until a pointer-down it accepts. It then listens for
// move and end events on a Surface, and it releases those listeners on every
// exit path: normal end, cancellation and teardown.
package gesture

import "slices"

// Kind is the type of a pointer event.
type Kind string

const (
	KindDown   Kind = "down"
	KindMove   Kind = "move"
	KindUp     Kind = "up"
	KindLeave  Kind = "leave"
	KindCancel Kind = "cancel"
)

// Valid reports whether k is a known event kind.
func (k Kind) Valid() bool {
	switch k {
	case KindDown, KindMove, KindUp, KindLeave, KindCancel:
		return true
	}
	return false
}

// Source is the input device that produced an event.
type Source string

const (
	SourceMouse Source = "mouse"
	SourceTouch Source = "touch"
)

// Role describes what a UI element under the pointer is.
type Role string

const (
	RoleWindow       Role = "window"
	RoleDragRegion   Role = "header"
	RoleContent      Role = "content"
	RoleButton       Role = "button"
	RoleInput        Role = "input"
	RoleTextArea     Role = "textarea"
	RoleResizeHandle Role = "resize-handle"
)

// Target is the element path under the pointer, innermost element first.
type Target []Role

// Has reports whether the target or any of its ancestors has role r.
func (t Target) Has(r Role) bool {
	return slices.Contains(t, r)
}

// BlocksDrag reports whether a pointer-down on this target must not start a
// drag: interactive controls keep their own pointer behaviour, and the resize
// handle belongs to the resize controller.
func (t Target) BlocksDrag() bool {
	for _, r := range t {
		switch r {
		case RoleButton, RoleInput, RoleTextArea, RoleResizeHandle:
			return true
		}
	}
	return false
}

// InDragRegion reports whether the target lies inside the drag region.
func (t Target) InDragRegion() bool {
	return t.Has(RoleDragRegion)
}

// OnResizeHandle reports whether the target is the resize handle or inside it.
func (t Target) OnResizeHandle() bool {
	return t.Has(RoleResizeHandle)
}

// PointerEvent is a single pointer sample in viewport coordinates.
type PointerEvent struct {
	Kind   Kind    `json:"kind"`
	Source Source  `json:"source"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Target Target  `json:"target,omitempty"`
}

// State is the phase of a gesture controller.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateResizing
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	default:
		return "unknown"
	}
}
