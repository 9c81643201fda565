package geometry

import (
	"math"
	"testing"
)

func TestConstrainPosition(t *testing.T) {
	tests := []struct {
		name     string
		pos      Position
		size     Size
		viewport Viewport
		expected Position
	}{
		{
			name:     "inside stays put",
			pos:      Position{X: 100, Y: 50},
			size:     Size{Width: 400, Height: 300},
			viewport: Viewport{Width: 1000, Height: 800},
			expected: Position{X: 100, Y: 50},
		},
		{
			name:     "negative clamps to origin",
			pos:      Position{X: -20, Y: -1},
			size:     Size{Width: 400, Height: 300},
			viewport: Viewport{Width: 1000, Height: 800},
			expected: Position{X: 0, Y: 0},
		},
		{
			name:     "past right and bottom edges",
			pos:      Position{X: 900, Y: 700},
			size:     Size{Width: 400, Height: 300},
			viewport: Viewport{Width: 1000, Height: 800},
			expected: Position{X: 600, Y: 500},
		},
		{
			name:     "window larger than viewport pins to origin",
			pos:      Position{X: 30, Y: 40},
			size:     Size{Width: 1200, Height: 900},
			viewport: Viewport{Width: 1000, Height: 800},
			expected: Position{X: 0, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConstrainPosition(tt.pos, tt.size, tt.viewport)
			if got != tt.expected {
				t.Errorf("ConstrainPosition() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestConstrainPositionIdempotent(t *testing.T) {
	values := []float64{-1e6, -350, -1, 0, 0.5, 1, 299, 768, 1000, 1e6}
	for _, x := range values {
		for _, w := range values {
			for _, vw := range values {
				p := Position{X: x, Y: w}
				s := Size{Width: w, Height: vw}
				vp := Viewport{Width: vw, Height: x}

				once := ConstrainPosition(p, s, vp)
				twice := ConstrainPosition(once, s, vp)
				if once != twice {
					t.Fatalf("not idempotent for p=%+v s=%+v vp=%+v: %+v then %+v", p, s, vp, once, twice)
				}
			}
		}
	}
}

func TestConstrainSize(t *testing.T) {
	tests := []struct {
		name     string
		size     Size
		min      Size
		max      Size
		expected Size
	}{
		{
			name:     "within bounds",
			size:     Size{Width: 500, Height: 600},
			min:      Size{Width: 300, Height: 350},
			max:      Size{Width: 1000, Height: 800},
			expected: Size{Width: 500, Height: 600},
		},
		{
			name:     "shrinks to maximum",
			size:     Size{Width: 1500, Height: 900},
			min:      Size{Width: 300, Height: 350},
			max:      Size{Width: 1000, Height: 800},
			expected: Size{Width: 1000, Height: 800},
		},
		{
			name:     "grows to minimum",
			size:     Size{Width: 10, Height: 20},
			min:      Size{Width: 300, Height: 350},
			max:      Size{Width: 1000, Height: 800},
			expected: Size{Width: 300, Height: 350},
		},
		{
			name:     "minimum wins over maximum",
			size:     Size{Width: 1, Height: 1},
			min:      Size{Width: 300, Height: 350},
			max:      Size{Width: 100, Height: 100},
			expected: Size{Width: 300, Height: 350},
		},
		{
			name:     "minimum wins when size exceeds inverted range",
			size:     Size{Width: 5000, Height: 5000},
			min:      Size{Width: 300, Height: 350},
			max:      Size{Width: 100, Height: 100},
			expected: Size{Width: 300, Height: 350},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConstrainSize(tt.size, tt.min.Width, tt.min.Height, tt.max.Width, tt.max.Height)
			if got != tt.expected {
				t.Errorf("ConstrainSize() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestDragBounds(t *testing.T) {
	c := DragBounds(Viewport{Width: 800, Height: 600}, Size{Width: 500, Height: 600})
	if c.MinX != 0 || c.MinY != 0 || c.MaxX != 300 || c.MaxY != 0 {
		t.Fatalf("DragBounds() = %+v", c)
	}

	got := c.Clamp(Position{X: 10000, Y: -40})
	if got != (Position{X: 300, Y: 0}) {
		t.Errorf("Clamp() = %+v, expected {300 0}", got)
	}
}

func TestResizeConstraints(t *testing.T) {
	unbounded := MinimumOnly(Size{Width: 300, Height: 350})
	if !math.IsInf(unbounded.MaxWidth, 1) || !math.IsInf(unbounded.MaxHeight, 1) {
		t.Fatalf("MinimumOnly() should be unbounded, got %+v", unbounded)
	}
	if got := unbounded.Clamp(Size{Width: 1e9, Height: 1}); got != (Size{Width: 1e9, Height: 350}) {
		t.Errorf("unbounded Clamp() = %+v", got)
	}

	bounded := ResizeBounds(Size{Width: 300, Height: 350}, Viewport{Width: 1000, Height: 800}, Position{X: 200, Y: 100})
	if bounded.MaxWidth != 800 || bounded.MaxHeight != 700 {
		t.Fatalf("ResizeBounds() = %+v", bounded)
	}
	if got := bounded.Clamp(Size{Width: 2000, Height: 2000}); got != (Size{Width: 800, Height: 700}) {
		t.Errorf("bounded Clamp() = %+v", got)
	}
}

func TestReconcile(t *testing.T) {
	minSize := Size{Width: 300, Height: 350}
	tests := []struct {
		name     string
		layout   Layout
		vp       Viewport
		expected Layout
	}{
		{
			name:     "fits unchanged",
			layout:   Layout{Position: Position{X: 120, Y: 40}, Size: Size{Width: 400, Height: 640}},
			vp:       Viewport{Width: 1000, Height: 800},
			expected: Layout{Position: Position{X: 120, Y: 40}, Size: Size{Width: 400, Height: 640}},
		},
		{
			name:     "shrunk size pulls position back",
			layout:   Layout{Position: Position{X: 600, Y: 100}, Size: Size{Width: 400, Height: 640}},
			vp:       Viewport{Width: 700, Height: 500},
			expected: Layout{Position: Position{X: 300, Y: 0}, Size: Size{Width: 400, Height: 500}},
		},
		{
			name:     "minimum wins in a tiny viewport",
			layout:   Layout{Position: Position{X: 50, Y: 50}, Size: Size{Width: 400, Height: 640}},
			vp:       Viewport{Width: 200, Height: 200},
			expected: Layout{Position: Position{}, Size: Size{Width: 300, Height: 350}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reconcile(tt.layout, minSize, tt.vp); got != tt.expected {
				t.Errorf("Reconcile() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestViewportMeasured(t *testing.T) {
	tests := []struct {
		vp       Viewport
		expected bool
	}{
		{Viewport{Width: 0, Height: 0}, false},
		{Viewport{Width: 1024, Height: 0}, false},
		{Viewport{Width: -1, Height: 768}, false},
		{Viewport{Width: 1, Height: 1}, true},
	}
	for _, tt := range tests {
		if got := tt.vp.Measured(); got != tt.expected {
			t.Errorf("%+v.Measured() = %v, expected %v", tt.vp, got, tt.expected)
		}
	}
}
