package gesture

import "time"

// DefaultThrottleInterval caps move handling at roughly 60 updates a second.
const DefaultThrottleInterval = 16 * time.Millisecond

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Throttle rate-limits move events. A move arriving inside the interval is
// held as pending instead of being dropped, so Flush can still apply the last
// sample when the gesture ends.
type Throttle struct {
	interval time.Duration
	clock    Clock
	last     time.Time
	fired    bool
	pending  *PointerEvent
}

// NewThrottle creates a throttle. A non-positive interval disables throttling.
func NewThrottle(interval time.Duration, clock Clock) *Throttle {
	if clock == nil {
		clock = SystemClock
	}
	return &Throttle{interval: interval, clock: clock}
}

// Allow reports whether ev may be applied now. When it may not, ev replaces
// any earlier pending event.
func (t *Throttle) Allow(ev PointerEvent) bool {
	now := t.clock.Now()
	if t.interval <= 0 || !t.fired || now.Sub(t.last) >= t.interval {
		t.last = now
		t.fired = true
		t.pending = nil
		return true
	}
	t.pending = &ev
	return false
}

// Flush returns and clears the pending event, if any.
func (t *Throttle) Flush() (PointerEvent, bool) {
	if t.pending == nil {
		return PointerEvent{}, false
	}
	ev := *t.pending
	t.pending = nil
	return ev, true
}

// Due returns the pending event once the interval has passed since the last
// applied one, and counts it as applied. This is the trailing edge that keeps
// a paused pointer from leaving the window behind.
func (t *Throttle) Due() (PointerEvent, bool) {
	if t.pending == nil {
		return PointerEvent{}, false
	}
	now := t.clock.Now()
	if now.Sub(t.last) < t.interval {
		return PointerEvent{}, false
	}
	ev := *t.pending
	t.pending = nil
	t.last = now
	return ev, true
}

// Wait reports how long until the pending event becomes due.
func (t *Throttle) Wait() (time.Duration, bool) {
	if t.pending == nil {
		return 0, false
	}
	return max(0, t.interval-t.clock.Now().Sub(t.last)), true
}

// Reset forgets the pending event and the last firing time.
func (t *Throttle) Reset() {
	t.fired = false
	t.pending = nil
}
