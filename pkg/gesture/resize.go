package gesture

import (
	"time"

	"github.com/fanchat/fanchat/pkg/geometry"
)

// ResizeConfig wires a resize controller to its window.
type ResizeConfig struct {
	Surface  *Surface
	Feedback Feedback
	Interval time.Duration
	Clock    Clock

	MinSize  geometry.Size
	Viewport func() geometry.Viewport
	Position func() geometry.Position

	OnResize func(geometry.Size)
	OnEnd    func()
}

type resizeStart struct {
	x, y float64
	size geometry.Size
}

// ResizeController grows and shrinks the window from its bottom-right handle.
type ResizeController struct {
	cfg      ResizeConfig
	throttle *Throttle

	state   State
	start   resizeStart
	release func()
}

// NewResizeController creates an idle resize controller.
func NewResizeController(cfg ResizeConfig) *ResizeController {
	if cfg.Surface == nil {
		cfg.Surface = NewSurface()
	}
	if cfg.Feedback == nil {
		cfg.Feedback = NopFeedback{}
	}
	return &ResizeController{
		cfg:      cfg,
		throttle: NewThrottle(cfg.Interval, cfg.Clock),
		state:    StateIdle,
	}
}

// State returns the controller phase.
func (r *ResizeController) State() State {
	return r.state
}

// IsResizing returns true if a resize is in progress.
func (r *ResizeController) IsResizing() bool {
	return r.state == StateResizing
}

// Start begins a resize from a pointer-down on the resize handle. A true
// result means the event is consumed and must not propagate to the drag
// controller.
func (r *ResizeController) Start(ev PointerEvent, size geometry.Size) bool {
	if r.state != StateIdle || !ev.Target.OnResizeHandle() {
		return false
	}

	r.state = StateResizing
	r.start = resizeStart{x: ev.X, y: ev.Y, size: size}
	r.throttle.Reset()
	r.cfg.Feedback.AddMarker(MarkerResizing)

	r.release = r.cfg.Surface.AddListeners(map[Kind]Listener{
		KindMove:   r.handleMove,
		KindUp:     r.handleEnd,
		KindCancel: r.handleEnd,
	})
	return true
}

func (r *ResizeController) handleMove(ev PointerEvent) {
	if r.state != StateResizing {
		return
	}
	if r.throttle.Allow(ev) {
		r.apply(ev)
	}
}

func (r *ResizeController) handleEnd(PointerEvent) {
	if r.state != StateResizing {
		return
	}
	if pending, ok := r.throttle.Flush(); ok {
		r.apply(pending)
	}
	r.finish()
}

// Tick applies a held-back resize sample once its interval has passed.
func (r *ResizeController) Tick() bool {
	if r.state != StateResizing {
		return false
	}
	ev, ok := r.throttle.Due()
	if ok {
		r.apply(ev)
	}
	return ok
}

// Pending reports how long until Tick can apply a held-back sample.
func (r *ResizeController) Pending() (time.Duration, bool) {
	if r.state != StateResizing {
		return 0, false
	}
	return r.throttle.Wait()
}

func (r *ResizeController) apply(ev PointerEvent) {
	candidate := geometry.Size{
		Width:  r.start.size.Width + (ev.X - r.start.x),
		Height: r.start.size.Height + (ev.Y - r.start.y),
	}
	bounds := geometry.ResizeBounds(r.cfg.MinSize, r.cfg.Viewport(), r.cfg.Position())
	if r.cfg.OnResize != nil {
		r.cfg.OnResize(bounds.Clamp(candidate))
	}
}

// Cancel aborts an active resize. Safe to call when idle.
func (r *ResizeController) Cancel() {
	if r.state != StateResizing {
		return
	}
	r.finish()
}

func (r *ResizeController) finish() {
	if r.release != nil {
		r.release()
		r.release = nil
	}
	r.cfg.Feedback.RemoveMarker(MarkerResizing)
	r.state = StateIdle
	r.start = resizeStart{}
	r.throttle.Reset()

	if r.cfg.OnEnd != nil {
		r.cfg.OnEnd()
	}
}
