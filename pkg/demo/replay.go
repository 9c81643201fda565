package demo

import (
	"time"

	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/window"
)

// Frame is the window state after one replayed event.
type Frame struct {
	At       time.Duration     `json:"at"`
	Viewport geometry.Viewport `json:"viewport"`
	Position geometry.Position `json:"position"`
	Size     geometry.Size     `json:"size"`
	Dragging bool              `json:"dragging"`
	Resizing bool              `json:"resizing"`
}

// replayClock advances only when the replay says so, which keeps gesture
// throttling identical to the recording.
type replayClock struct {
	now time.Time
}

func (c *replayClock) Now() time.Time { return c.now }

// Replay feeds a script into a new window built from cfg and returns one
// frame for the initial layout and one per event. cfg.Clock, cfg.Touch and
// cfg.AfterFunc are replaced.
func Replay(script *Script, cfg window.Config) []Frame {
	clock := &replayClock{now: time.Unix(0, 0)}
	cfg.Clock = clock
	cfg.Touch = script.Touch
	cfg.AfterFunc = nil

	w := window.New(cfg)
	defer w.Close()
	w.SetViewport(script.Viewport)

	var at time.Duration
	frames := []Frame{frameOf(w.Snapshot(), at)}
	for _, e := range script.Events {
		at += e.Delay
		clock.now = clock.now.Add(e.Delay)
		// A pause in the recording lets a held-back move land first.
		w.Tick()
		switch {
		case e.Viewport != nil:
			w.SetViewport(*e.Viewport)
		case e.Pointer != nil:
			w.HandlePointer(*e.Pointer)
		default:
			continue
		}
		frames = append(frames, frameOf(w.Snapshot(), at))
	}
	return frames
}

func frameOf(s window.Snapshot, at time.Duration) Frame {
	return Frame{
		At:       at,
		Viewport: s.Viewport,
		Position: s.Position,
		Size:     s.Size,
		Dragging: s.Dragging,
		Resizing: s.Resizing,
	}
}
