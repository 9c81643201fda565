package gesture

import (
	"testing"
	"time"

	"github.com/fanchat/fanchat/pkg/geometry"
)

type resizeHarness struct {
	surface   *Surface
	indicator *Indicator
	clock     *fakeClock
	viewport  geometry.Viewport
	position  geometry.Position
	size      geometry.Size
	resizes   int
	ends      int
	ctrl      *ResizeController
}

func newResizeHarness(interval time.Duration) *resizeHarness {
	h := &resizeHarness{
		surface:   NewSurface(),
		indicator: NewIndicator(),
		clock:     &fakeClock{now: time.Unix(0, 0)},
		viewport:  geometry.Viewport{Width: 1000, Height: 800},
		position:  geometry.Position{X: 100, Y: 100},
		size:      geometry.Size{Width: 400, Height: 400},
	}
	h.ctrl = NewResizeController(ResizeConfig{
		Surface:  h.surface,
		Feedback: h.indicator,
		Interval: interval,
		Clock:    h.clock,
		MinSize:  geometry.Size{Width: 300, Height: 350},
		Viewport: func() geometry.Viewport { return h.viewport },
		Position: func() geometry.Position { return h.position },
		OnResize: func(s geometry.Size) {
			h.size = s
			h.resizes++
		},
		OnEnd: func() { h.ends++ },
	})
	return h
}

func handle(kind Kind, x, y float64) PointerEvent {
	return PointerEvent{Kind: kind, Source: SourceMouse, X: x, Y: y, Target: Target{RoleResizeHandle, RoleWindow}}
}

func TestResizeStartsOnlyFromHandle(t *testing.T) {
	tests := []struct {
		name     string
		target   Target
		expected bool
	}{
		{name: "handle", target: Target{RoleResizeHandle, RoleWindow}, expected: true},
		{name: "inside handle", target: Target{RoleContent, RoleResizeHandle}, expected: true},
		{name: "header", target: Target{RoleDragRegion, RoleWindow}, expected: false},
		{name: "content", target: Target{RoleContent, RoleWindow}, expected: false},
		{name: "no target", target: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newResizeHarness(0)
			ev := PointerEvent{Kind: KindDown, Source: SourceMouse, X: 500, Y: 500, Target: tt.target}
			if got := h.ctrl.Start(ev, h.size); got != tt.expected {
				t.Errorf("Start() = %v, expected %v", got, tt.expected)
			}
			if h.ctrl.IsResizing() != tt.expected {
				t.Errorf("IsResizing() = %v, expected %v", h.ctrl.IsResizing(), tt.expected)
			}
		})
	}
}

func TestResizeClamping(t *testing.T) {
	tests := []struct {
		name     string
		dx, dy   float64
		expected geometry.Size
	}{
		{name: "grow inside viewport", dx: 100, dy: 50, expected: geometry.Size{Width: 500, Height: 450}},
		{name: "grow past right and bottom edges", dx: 5000, dy: 5000, expected: geometry.Size{Width: 900, Height: 700}},
		{name: "shrink below minimum", dx: -300, dy: -300, expected: geometry.Size{Width: 300, Height: 350}},
		{name: "no movement", dx: 0, dy: 0, expected: geometry.Size{Width: 400, Height: 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newResizeHarness(0)
			h.ctrl.Start(handle(KindDown, 500, 500), h.size)
			h.surface.Dispatch(handle(KindMove, 500+tt.dx, 500+tt.dy))

			if h.size != tt.expected {
				t.Errorf("size = %+v, expected %+v", h.size, tt.expected)
			}
		})
	}
}

func TestResizeMinimumWinsInTinyViewport(t *testing.T) {
	h := newResizeHarness(0)
	h.viewport = geometry.Viewport{Width: 350, Height: 300}
	h.position = geometry.Position{}

	h.ctrl.Start(handle(KindDown, 0, 0), h.size)
	h.surface.Dispatch(handle(KindMove, 1000, 1000))

	if h.size != (geometry.Size{Width: 350, Height: 350}) {
		t.Errorf("size = %+v, expected {350 350}", h.size)
	}
}

func TestResizeFeedbackAndRelease(t *testing.T) {
	for _, kind := range []Kind{KindUp, KindCancel} {
		t.Run(string(kind), func(t *testing.T) {
			h := newResizeHarness(0)
			h.ctrl.Start(handle(KindDown, 0, 0), h.size)

			if m := h.indicator.Markers(); len(m) != 1 || m[0] != MarkerResizing {
				t.Errorf("markers = %v while resizing", m)
			}
			if h.indicator.Cursor() != "" {
				t.Errorf("resize set cursor %q", h.indicator.Cursor())
			}

			h.surface.Dispatch(handle(kind, 0, 0))

			if h.ctrl.IsResizing() {
				t.Fatal("expected idle")
			}
			if len(h.indicator.Markers()) != 0 {
				t.Errorf("markers not reverted: %v", h.indicator.Markers())
			}
			if h.surface.Len() != 0 {
				t.Errorf("%d listeners still registered", h.surface.Len())
			}
			if h.ends != 1 {
				t.Errorf("OnEnd called %d times", h.ends)
			}
		})
	}
}

func TestResizeIgnoresLeave(t *testing.T) {
	h := newResizeHarness(0)
	h.ctrl.Start(handle(KindDown, 500, 500), h.size)

	if h.surface.Dispatch(handle(KindLeave, 1200, 500)) {
		t.Error("resize should not listen for leave")
	}
	if !h.ctrl.IsResizing() {
		t.Fatal("leave ended the resize")
	}

	h.surface.Dispatch(handle(KindMove, 600, 500))
	if h.size.Width != 500 {
		t.Errorf("width = %v, expected 500", h.size.Width)
	}
}

func TestResizeThrottleFlushOnEnd(t *testing.T) {
	h := newResizeHarness(16 * time.Millisecond)
	h.ctrl.Start(handle(KindDown, 500, 500), h.size)

	h.surface.Dispatch(handle(KindMove, 510, 510))
	h.surface.Dispatch(handle(KindMove, 550, 560))
	if h.resizes != 1 {
		t.Fatalf("resizes = %d, expected 1 before the interval elapsed", h.resizes)
	}

	h.surface.Dispatch(handle(KindUp, 550, 560))
	if h.size != (geometry.Size{Width: 450, Height: 460}) {
		t.Errorf("size = %+v, expected the pending sample to be applied", h.size)
	}
}

func TestResizeTickAppliesHeldSample(t *testing.T) {
	h := newResizeHarness(16 * time.Millisecond)
	h.ctrl.Start(handle(KindDown, 500, 500), h.size)

	h.surface.Dispatch(handle(KindMove, 510, 510))
	h.surface.Dispatch(handle(KindMove, 550, 560))

	h.clock.Advance(20 * time.Millisecond)
	if !h.ctrl.Tick() {
		t.Fatal("Tick() = false, expected the held sample to apply")
	}
	if h.size != (geometry.Size{Width: 450, Height: 460}) || !h.ctrl.IsResizing() {
		t.Errorf("size = %+v resizing = %v", h.size, h.ctrl.IsResizing())
	}
}

func TestResizeCancel(t *testing.T) {
	h := newResizeHarness(0)
	h.ctrl.Cancel()
	if h.ends != 0 {
		t.Error("Cancel on an idle controller called OnEnd")
	}

	h.ctrl.Start(handle(KindDown, 0, 0), h.size)
	h.ctrl.Cancel()
	if h.ctrl.State() != StateIdle || h.surface.Len() != 0 || len(h.indicator.Markers()) != 0 {
		t.Error("Cancel did not return to a clean idle state")
	}
}
