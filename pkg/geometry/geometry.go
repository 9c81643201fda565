// Package geometry holds the value types and pure functions that keep the chat
// window inside the visible viewport.
//
// Every function in this package is total: any finite input produces a
// deterministic result, and nothing here mutates shared state. Callers own the
// Position/Size pair and decide when to apply the values returned here.
package geometry

import "math"

// Position is the top-left offset of the window relative to the viewport origin.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is the window's outer dimensions.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Viewport is the visible area the window is laid out in. It is owned by the
// host environment and only ever sampled.
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Measured reports whether the host has reported real dimensions yet.
// Placement and reconciliation are skipped for unmeasured viewports.
func (v Viewport) Measured() bool {
	return v.Width > 0 && v.Height > 0
}

// Layout is a position and size pair.
type Layout struct {
	Position Position `json:"position"`
	Size     Size     `json:"size"`
}

// DragConstraints bounds the window's top-left corner during a drag.
type DragConstraints struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// DragBounds derives the drag constraints for a window of the given size.
// The upper bound never drops below zero, so a window larger than the
// viewport is pinned to the origin.
func DragBounds(vp Viewport, s Size) DragConstraints {
	return DragConstraints{
		MaxX: math.Max(0, vp.Width-s.Width),
		MaxY: math.Max(0, vp.Height-s.Height),
	}
}

// Clamp constrains p to the bounds.
func (c DragConstraints) Clamp(p Position) Position {
	return Position{
		X: math.Max(c.MinX, math.Min(c.MaxX, p.X)),
		Y: math.Max(c.MinY, math.Min(c.MaxY, p.Y)),
	}
}

// ResizeConstraints bounds the window size during a resize. MaxWidth and
// MaxHeight are +Inf when the axis is unbounded.
type ResizeConstraints struct {
	MinWidth  float64
	MinHeight float64
	MaxWidth  float64
	MaxHeight float64
}

// MinimumOnly returns constraints with no upper bound.
func MinimumOnly(minSize Size) ResizeConstraints {
	return ResizeConstraints{
		MinWidth:  minSize.Width,
		MinHeight: minSize.Height,
		MaxWidth:  math.Inf(1),
		MaxHeight: math.Inf(1),
	}
}

// ResizeBounds derives resize constraints for a window anchored at p: the
// window may not grow past the viewport edge opposite its top-left corner.
func ResizeBounds(minSize Size, vp Viewport, p Position) ResizeConstraints {
	return ResizeConstraints{
		MinWidth:  minSize.Width,
		MinHeight: minSize.Height,
		MaxWidth:  vp.Width - p.X,
		MaxHeight: vp.Height - p.Y,
	}
}

// Clamp constrains s to the bounds. Minimums win over maximums.
func (c ResizeConstraints) Clamp(s Size) Size {
	return ConstrainSize(s, c.MinWidth, c.MinHeight, c.MaxWidth, c.MaxHeight)
}

// ConstrainPosition clamps each axis of p to [0, max(0, viewport-size)].
func ConstrainPosition(p Position, s Size, vp Viewport) Position {
	return Position{
		X: math.Max(0, math.Min(p.X, vp.Width-s.Width)),
		Y: math.Max(0, math.Min(p.Y, vp.Height-s.Height)),
	}
}

// ConstrainSize clamps each axis of s to [min, max], applying the maximum
// first so that the minimum wins when the range is inverted.
func ConstrainSize(s Size, minWidth, minHeight, maxWidth, maxHeight float64) Size {
	return Size{
		Width:  math.Max(minWidth, math.Min(s.Width, maxWidth)),
		Height: math.Max(minHeight, math.Min(s.Height, maxHeight)),
	}
}

// Reconcile fits l into a new viewport. The size is clamped first and the
// position is then clamped against that size, so a shrink can pull the window
// back on screen.
func Reconcile(l Layout, minSize Size, vp Viewport) Layout {
	size := ConstrainSize(l.Size, minSize.Width, minSize.Height, vp.Width, vp.Height)
	return Layout{
		Position: ConstrainPosition(l.Position, size, vp),
		Size:     size,
	}
}
