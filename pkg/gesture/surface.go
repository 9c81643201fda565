package gesture

import "sync"

// Listener handles one pointer event.
type Listener func(PointerEvent)

type listenerEntry struct {
	id   int
	kind Kind
	fn   Listener
}

// Surface is the tracked surface pointer events are dispatched on while a
// gesture is in progress, the equivalent of document-level listeners.
type Surface struct {
	mu        sync.Mutex
	nextID    int
	listeners []listenerEntry
}

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

// AddListeners registers one listener per event kind and returns a function
// that removes all of them. The remove function is idempotent.
func (s *Surface) AddListeners(listeners map[Kind]Listener) (remove func()) {
	s.mu.Lock()
	ids := make([]int, 0, len(listeners))
	for _, kind := range []Kind{KindDown, KindMove, KindUp, KindLeave, KindCancel} {
		fn, ok := listeners[kind]
		if !ok || fn == nil {
			continue
		}
		s.nextID++
		s.listeners = append(s.listeners, listenerEntry{id: s.nextID, kind: kind, fn: fn})
		ids = append(ids, s.nextID)
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(ids) })
	}
}

func (s *Surface) remove(ids []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.listeners[:0]
	for _, l := range s.listeners {
		drop := false
		for _, id := range ids {
			if l.id == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, l)
		}
	}
	clear(s.listeners[len(kept):])
	s.listeners = kept
}

// Dispatch delivers ev to the listeners registered for its kind, in
// registration order. Listeners may remove themselves while being called.
// It reports whether any listener received the event.
func (s *Surface) Dispatch(ev PointerEvent) bool {
	s.mu.Lock()
	var targets []Listener
	for _, l := range s.listeners {
		if l.kind == ev.Kind {
			targets = append(targets, l.fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range targets {
		fn(ev)
	}
	return len(targets) > 0
}

// Len returns the number of registered listeners.
func (s *Surface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
