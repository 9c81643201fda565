// Package demo records pointer gestures against the chat window, replays
// them deterministically and renders the result as a self-contained HTML
// animation.
package demo

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/gesture"
)

// Event is one recorded input: either a pointer sample or a viewport change.
type Event struct {
	// Delay since the previous event.
	Delay    time.Duration         `yaml:"delay"`
	Pointer  *gesture.PointerEvent `yaml:"pointer,omitempty"`
	Viewport *geometry.Viewport    `yaml:"viewport,omitempty"`
}

// Script is a recording that can be replayed against a fresh window.
type Script struct {
	Title    string            `yaml:"title"`
	Viewport geometry.Viewport `yaml:"viewport"`
	Touch    bool              `yaml:"touch,omitempty"`
	Events   []Event           `yaml:"events"`
}

// Recorder captures input events with timing.
type Recorder struct {
	clock     gesture.Clock
	events    []Event
	lastEvent time.Time
	started   bool
}

// NewRecorder creates a recorder. A nil clock uses the wall clock.
func NewRecorder(clock gesture.Clock) *Recorder {
	if clock == nil {
		clock = gesture.SystemClock
	}
	return &Recorder{clock: clock}
}

func (r *Recorder) delay() time.Duration {
	now := r.clock.Now()
	if !r.started {
		r.started = true
		r.lastEvent = now
		return 0
	}
	d := now.Sub(r.lastEvent)
	r.lastEvent = now
	return d
}

// AddPointer records a pointer event.
func (r *Recorder) AddPointer(ev gesture.PointerEvent) {
	ev.Target = append(gesture.Target(nil), ev.Target...)
	r.events = append(r.events, Event{Delay: r.delay(), Pointer: &ev})
}

// AddViewport records a viewport change.
func (r *Recorder) AddViewport(vp geometry.Viewport) {
	r.events = append(r.events, Event{Delay: r.delay(), Viewport: &vp})
}

// Events returns all recorded events
func (r *Recorder) Events() []Event {
	return r.events
}

// ToScript converts the recording to a Script. The first recorded viewport
// becomes the starting viewport.
func (r *Recorder) ToScript(title string, touch bool) *Script {
	s := &Script{Title: title, Touch: touch}
	for _, e := range r.events {
		if e.Viewport != nil {
			s.Viewport = *e.Viewport
			break
		}
	}
	s.Events = append([]Event(nil), r.events...)
	return s
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if !script.Viewport.Measured() {
		return nil, fmt.Errorf("script %s has no starting viewport", path)
	}
	for i, e := range script.Events {
		if e.Pointer != nil && !e.Pointer.Kind.Valid() {
			return nil, fmt.Errorf("event %d: unknown pointer kind %q", i, e.Pointer.Kind)
		}
	}
	return &script, nil
}

// SaveScript writes a script as YAML.
func SaveScript(script *Script, path string) error {
	data, err := yaml.Marshal(script)
	if err != nil {
		return fmt.Errorf("failed to encode script: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
