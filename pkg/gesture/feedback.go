package gesture

import (
	"log/slog"
	"slices"
	"sync"
)

// Visual feedback names applied while a gesture is active.
const (
	CursorGrabbing = "grabbing"
	MarkerDragging = "dragging"
	MarkerResizing = "resize-active"
)

// Feedback is the side channel for global gesture indication: the cursor
// shown over the whole page and body-level markers such as "dragging".
// Controllers revert everything they set when the gesture ends.
type Feedback interface {
	SetCursor(cursor string)
	AddMarker(name string)
	RemoveMarker(name string)
}

// NopFeedback discards all feedback.
type NopFeedback struct{}

func (NopFeedback) SetCursor(string)    {}
func (NopFeedback) AddMarker(string)    {}
func (NopFeedback) RemoveMarker(string) {}

// LogFeedback records feedback changes as debug log events.
type LogFeedback struct {
	Logger *slog.Logger
}

func (f LogFeedback) SetCursor(cursor string) {
	f.Logger.Debug("gesture cursor", "cursor", cursor)
}

func (f LogFeedback) AddMarker(name string) {
	f.Logger.Debug("gesture marker added", "marker", name)
}

func (f LogFeedback) RemoveMarker(name string) {
	f.Logger.Debug("gesture marker removed", "marker", name)
}

// Indicator keeps the current feedback state so a host can render it.
type Indicator struct {
	mu      sync.Mutex
	cursor  string
	markers map[string]struct{}
}

// NewIndicator creates an indicator with no cursor and no markers.
func NewIndicator() *Indicator {
	return &Indicator{markers: make(map[string]struct{})}
}

func (i *Indicator) SetCursor(cursor string) {
	i.mu.Lock()
	i.cursor = cursor
	i.mu.Unlock()
}

func (i *Indicator) AddMarker(name string) {
	i.mu.Lock()
	i.markers[name] = struct{}{}
	i.mu.Unlock()
}

func (i *Indicator) RemoveMarker(name string) {
	i.mu.Lock()
	delete(i.markers, name)
	i.mu.Unlock()
}

// Cursor returns the current cursor, empty for the default one.
func (i *Indicator) Cursor() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cursor
}

// Markers returns the active markers in sorted order.
func (i *Indicator) Markers() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]string, 0, len(i.markers))
	for m := range i.markers {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

type teeFeedback []Feedback

// Tee fans feedback out to several sinks.
func Tee(sinks ...Feedback) Feedback {
	return teeFeedback(sinks)
}

func (t teeFeedback) SetCursor(cursor string) {
	for _, f := range t {
		f.SetCursor(cursor)
	}
}

func (t teeFeedback) AddMarker(name string) {
	for _, f := range t {
		f.AddMarker(name)
	}
}

func (t teeFeedback) RemoveMarker(name string) {
	for _, f := range t {
		f.RemoveMarker(name)
	}
}
