package gesture

import (
	"time"

	"github.com/fanchat/fanchat/pkg/geometry"
)

// DragConfig wires a drag controller to its window.
type DragConfig struct {
	Surface  *Surface
	Feedback Feedback
	Interval time.Duration
	Clock    Clock

	// Viewport and Size are read on every move so the bounds track the live
	// window.
	Viewport func() geometry.Viewport
	Size     func() geometry.Size

	// OnMove receives every clamped position.
	OnMove func(geometry.Position)
	// OnEnd runs after the controller has returned to idle.
	OnEnd func()
}

// DragController moves the window with the pointer.
type DragController struct {
	cfg      DragConfig
	throttle *Throttle

	state   State
	offset  geometry.Position
	source  Source
	release func()
}

// NewDragController creates an idle drag controller.
func NewDragController(cfg DragConfig) *DragController {
	if cfg.Surface == nil {
		cfg.Surface = NewSurface()
	}
	if cfg.Feedback == nil {
		cfg.Feedback = NopFeedback{}
	}
	return &DragController{
		cfg:      cfg,
		throttle: NewThrottle(cfg.Interval, cfg.Clock),
		state:    StateIdle,
	}
}

// State returns the controller phase.
func (d *DragController) State() State {
	return d.state
}

// IsDragging returns true if a drag is in progress.
func (d *DragController) IsDragging() bool {
	return d.state == StateDragging
}

// Start begins a drag from a pointer-down at ev with the window at pos. It
// refuses, and stays idle, when the target is an interactive control or the
// resize handle, or when a drag is already active.
func (d *DragController) Start(ev PointerEvent, pos geometry.Position) bool {
	if d.state != StateIdle || ev.Target.BlocksDrag() {
		return false
	}

	d.state = StateDragging
	d.offset = geometry.Position{X: ev.X - pos.X, Y: ev.Y - pos.Y}
	d.source = ev.Source
	d.throttle.Reset()

	d.cfg.Feedback.AddMarker(MarkerDragging)
	if d.source != SourceTouch {
		d.cfg.Feedback.SetCursor(CursorGrabbing)
	}

	d.release = d.cfg.Surface.AddListeners(map[Kind]Listener{
		KindMove:   d.handleMove,
		KindUp:     d.handleEnd,
		KindLeave:  d.handleEnd,
		KindCancel: d.handleEnd,
	})
	return true
}

func (d *DragController) handleMove(ev PointerEvent) {
	if d.state != StateDragging {
		return
	}
	if d.throttle.Allow(ev) {
		d.apply(ev)
	}
}

func (d *DragController) handleEnd(PointerEvent) {
	if d.state != StateDragging {
		return
	}
	if pending, ok := d.throttle.Flush(); ok {
		d.apply(pending)
	}
	d.finish()
}

// Tick applies a move held back by the throttle once its interval has
// passed. It reports whether the window moved.
func (d *DragController) Tick() bool {
	if d.state != StateDragging {
		return false
	}
	ev, ok := d.throttle.Due()
	if ok {
		d.apply(ev)
	}
	return ok
}

// Pending reports how long until Tick can apply a held-back move.
func (d *DragController) Pending() (time.Duration, bool) {
	if d.state != StateDragging {
		return 0, false
	}
	return d.throttle.Wait()
}

func (d *DragController) apply(ev PointerEvent) {
	candidate := geometry.Position{X: ev.X - d.offset.X, Y: ev.Y - d.offset.Y}
	bounds := geometry.DragBounds(d.cfg.Viewport(), d.cfg.Size())
	if d.cfg.OnMove != nil {
		d.cfg.OnMove(bounds.Clamp(candidate))
	}
}

// Cancel aborts an active drag without applying pending movement. It is the
// teardown path and is safe to call when idle.
func (d *DragController) Cancel() {
	if d.state != StateDragging {
		return
	}
	d.finish()
}

func (d *DragController) finish() {
	if d.release != nil {
		d.release()
		d.release = nil
	}
	d.cfg.Feedback.RemoveMarker(MarkerDragging)
	if d.source != SourceTouch {
		d.cfg.Feedback.SetCursor("")
	}
	d.state = StateIdle
	d.offset = geometry.Position{}
	d.throttle.Reset()

	if d.cfg.OnEnd != nil {
		d.cfg.OnEnd()
	}
}
