// Package window owns the geometry of one chat window instance.
//
// A Window holds the Position/Size pair, routes pointer events to the drag and
// resize controllers and re-clamps the geometry whenever the host reports a
// new viewport. Observers are notified after the window lock is released, in
// the order the changes happened.
package window

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/gesture"
)

// DefaultInitialSize is the window size before the first viewport measurement.
var DefaultInitialSize = geometry.Size{Width: 500, Height: 600}

// Observer receives geometry changes. Calls are made without the window lock
// held, so an observer may call back into the window.
type Observer interface {
	PositionChanged(geometry.Position)
	SizeChanged(geometry.Size)
	GestureChanged(gesture.State)
}

// Funcs adapts plain functions to Observer. Nil fields are skipped.
type Funcs struct {
	OnPosition func(geometry.Position)
	OnSize     func(geometry.Size)
	OnGesture  func(gesture.State)
}

func (f Funcs) PositionChanged(p geometry.Position) {
	if f.OnPosition != nil {
		f.OnPosition(p)
	}
}

func (f Funcs) SizeChanged(s geometry.Size) {
	if f.OnSize != nil {
		f.OnSize(s)
	}
}

func (f Funcs) GestureChanged(s gesture.State) {
	if f.OnGesture != nil {
		f.OnGesture(s)
	}
}

// Config configures a Window.
type Config struct {
	Placement geometry.Placement
	// Touch forces mobile placement on the first measurement.
	Touch bool

	ThrottleInterval time.Duration
	Clock            gesture.Clock
	Feedback         gesture.Feedback
	Observer         Observer
	Logger           *slog.Logger

	// InitialSize is used until the first viewport is measured.
	InitialSize geometry.Size

	// AfterFunc schedules the catch-up of a move held back by the throttle.
	// It must run f later, on another goroutine. When nil it defaults to
	// time.AfterFunc if Clock is also nil; with an injected clock the host
	// drives the catch-up through Tick.
	AfterFunc func(d time.Duration, f func())
}

// Snapshot is a point-in-time copy of the window state.
type Snapshot struct {
	Position    geometry.Position `json:"position"`
	Size        geometry.Size     `json:"size"`
	Viewport    geometry.Viewport `json:"viewport"`
	Dragging    bool              `json:"dragging"`
	Resizing    bool              `json:"resizing"`
	Initialized bool              `json:"initialized"`
}

// Window is a single draggable, resizable chat window.
type Window struct {
	mu sync.Mutex

	placement geometry.Placement
	touch     bool
	observer  Observer
	logger    *slog.Logger
	afterFunc func(time.Duration, func())
	tickArmed bool

	position    geometry.Position
	size        geometry.Size
	viewport    geometry.Viewport
	initialized bool
	deferred    bool

	surface *gesture.Surface
	drag    *gesture.DragController
	resize  *gesture.ResizeController

	queue []func()
}

// New creates a window. The geometry stays at the origin with the initial
// size until SetViewport reports a measured viewport.
func New(cfg Config) *Window {
	if cfg.Placement == (geometry.Placement{}) {
		cfg.Placement = geometry.DefaultPlacement()
	}
	if cfg.InitialSize == (geometry.Size{}) {
		cfg.InitialSize = DefaultInitialSize
	}
	if cfg.Observer == nil {
		cfg.Observer = Funcs{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Feedback == nil {
		cfg.Feedback = gesture.NopFeedback{}
	}
	if cfg.AfterFunc == nil && cfg.Clock == nil {
		cfg.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}

	w := &Window{
		placement: cfg.Placement,
		touch:     cfg.Touch,
		observer:  cfg.Observer,
		logger:    cfg.Logger,
		afterFunc: cfg.AfterFunc,
		size:      cfg.InitialSize,
		surface:   gesture.NewSurface(),
	}

	w.drag = gesture.NewDragController(gesture.DragConfig{
		Surface:  w.surface,
		Feedback: cfg.Feedback,
		Interval: cfg.ThrottleInterval,
		Clock:    cfg.Clock,
		Viewport: func() geometry.Viewport { return w.viewport },
		Size:     func() geometry.Size { return w.size },
		OnMove:   w.setPosition,
		OnEnd:    w.gestureEnded,
	})
	w.resize = gesture.NewResizeController(gesture.ResizeConfig{
		Surface:  w.surface,
		Feedback: cfg.Feedback,
		Interval: cfg.ThrottleInterval,
		Clock:    cfg.Clock,
		MinSize:  cfg.Placement.MinSize,
		Viewport: func() geometry.Viewport { return w.viewport },
		Position: func() geometry.Position { return w.position },
		OnResize: w.setSize,
		OnEnd:    w.gestureEnded,
	})
	return w
}

// do runs fn under the lock and then delivers the notifications it queued.
func (w *Window) do(fn func()) {
	w.mu.Lock()
	fn()
	queued := w.queue
	w.queue = nil
	w.mu.Unlock()

	for _, n := range queued {
		n()
	}
}

func (w *Window) setPosition(p geometry.Position) {
	if p == w.position {
		return
	}
	w.position = p
	w.queue = append(w.queue, func() { w.observer.PositionChanged(p) })
}

func (w *Window) setSize(s geometry.Size) {
	if s == w.size {
		return
	}
	w.size = s
	w.queue = append(w.queue, func() { w.observer.SizeChanged(s) })
}

func (w *Window) gestureStarted(state gesture.State) {
	w.logger.Debug("gesture started", "state", state.String(), "x", w.position.X, "y", w.position.Y)
	w.queue = append(w.queue, func() { w.observer.GestureChanged(state) })
}

func (w *Window) gestureEnded() {
	w.logger.Debug("gesture ended", "x", w.position.X, "y", w.position.Y,
		"width", w.size.Width, "height", w.size.Height)
	w.queue = append(w.queue, func() { w.observer.GestureChanged(gesture.StateIdle) })

	if w.deferred {
		w.deferred = false
		w.reconcile()
	}
}

func (w *Window) gestureActive() bool {
	return w.drag.IsDragging() || w.resize.IsResizing()
}

// HandlePointer routes a pointer event. A pointer-down is offered to the
// resize controller first; only if it declines, and the target lies in the
// drag region, is it offered to the drag controller. A pointer-down while a
// gesture is active, or before the first viewport measurement, is ignored.
// Other kinds go to the active gesture. It reports whether the event was
// consumed.
func (w *Window) HandlePointer(ev gesture.PointerEvent) bool {
	if !ev.Kind.Valid() {
		return false
	}

	var handled bool
	w.do(func() {
		if ev.Kind != gesture.KindDown {
			handled = w.surface.Dispatch(ev)
			w.armTick()
			return
		}
		if !w.initialized || w.gestureActive() {
			return
		}
		if w.resize.Start(ev, w.size) {
			w.gestureStarted(gesture.StateResizing)
			handled = true
			return
		}
		if ev.Target.InDragRegion() && w.drag.Start(ev, w.position) {
			w.gestureStarted(gesture.StateDragging)
			handled = true
		}
	})
	return handled
}

// Tick applies a move the throttle held back once its interval has passed,
// so the window catches up with a pointer that stopped moving. It reports
// whether the geometry changed.
func (w *Window) Tick() bool {
	var applied bool
	w.do(func() { applied = w.tick() })
	return applied
}

// Pending reports how long until Tick can apply a held-back move.
func (w *Window) Pending() (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending()
}

func (w *Window) tick() bool {
	return w.drag.Tick() || w.resize.Tick()
}

func (w *Window) pending() (time.Duration, bool) {
	if d, ok := w.drag.Pending(); ok {
		return d, true
	}
	return w.resize.Pending()
}

// armTick schedules one catch-up for the held-back move, if there is one.
func (w *Window) armTick() {
	if w.afterFunc == nil || w.tickArmed {
		return
	}
	d, ok := w.pending()
	if !ok {
		return
	}
	w.tickArmed = true
	w.afterFunc(d, func() {
		w.do(func() {
			w.tickArmed = false
			w.tick()
			w.armTick()
		})
	})
}

// SetViewport reports new viewport dimensions. Unmeasured viewports are
// ignored. The first measured viewport adopts the initial placement; later
// ones re-clamp the size and then the position. While a gesture is active the
// re-clamp waits until the gesture ends.
func (w *Window) SetViewport(vp geometry.Viewport) {
	if !vp.Measured() {
		return
	}
	w.do(func() {
		w.viewport = vp
		if w.gestureActive() {
			w.deferred = true
			return
		}
		w.reconcile()
	})
}

func (w *Window) reconcile() {
	if !w.initialized {
		layout, ok := w.placement.InitialLayout(w.viewport, w.touch)
		if !ok {
			return
		}
		w.initialized = true
		w.logger.Debug("initial layout",
			"device", w.placement.Classify(w.viewport, w.touch).String(),
			"x", layout.Position.X, "y", layout.Position.Y,
			"width", layout.Size.Width, "height", layout.Size.Height)
		w.setSize(layout.Size)
		// Placement may overflow a viewport smaller than the minimum size.
		w.setPosition(geometry.ConstrainPosition(layout.Position, layout.Size, w.viewport))
		return
	}

	layout := geometry.Reconcile(geometry.Layout{Position: w.position, Size: w.size}, w.placement.MinSize, w.viewport)
	w.setSize(layout.Size)
	w.setPosition(layout.Position)
}

// SetTouch records whether the host has a touch-capable pointer. It only
// affects the initial placement.
func (w *Window) SetTouch(touch bool) {
	w.do(func() { w.touch = touch })
}

// Close tears down an in-flight gesture, releasing its listeners and visual
// feedback without applying pending movement.
func (w *Window) Close() {
	w.do(func() {
		w.drag.Cancel()
		w.resize.Cancel()
		w.deferred = false
	})
}

// Snapshot returns the current window state.
func (w *Window) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Position:    w.position,
		Size:        w.size,
		Viewport:    w.viewport,
		Dragging:    w.drag.IsDragging(),
		Resizing:    w.resize.IsResizing(),
		Initialized: w.initialized,
	}
}
