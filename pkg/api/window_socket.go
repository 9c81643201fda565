package api

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/gesture"
	"github.com/fanchat/fanchat/pkg/window"
	"github.com/gorilla/websocket"
)

// Window socket message types
const (
	MessageViewport = "viewport"
	MessagePointer  = "pointer"
	MessageGeometry = "geometry"
	MessageError    = "error"
)

const maxWindowMessageSize = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The widget is served from the same origin or embedded by the host page.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WindowMessage is a message from the widget to the server.
type WindowMessage struct {
	Type     string                `json:"type"`
	Viewport geometry.Viewport     `json:"viewport,omitempty"`
	Touch    *bool                 `json:"touch,omitempty"`
	Event    *gesture.PointerEvent `json:"event,omitempty"`
}

// GeometryFrame is sent to the widget whenever the window changes.
type GeometryFrame struct {
	Type        string            `json:"type"`
	Position    geometry.Position `json:"position"`
	Size        geometry.Size     `json:"size"`
	Dragging    bool              `json:"dragging"`
	Resizing    bool              `json:"resizing"`
	Initialized bool              `json:"initialized"`
	Cursor      string            `json:"cursor"`
	Markers     []string          `json:"markers"`
	Error       string            `json:"error,omitempty"`
}

// WindowSocketHandler handles /ws/window. Each connection owns one window:
// the widget streams viewport measurements and pointer events, and the server
// answers with the constrained geometry.
func (h *Handlers) WindowSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger().Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxWindowMessageSize)

	cfg := h.config()
	log := h.logger().With("remote", r.RemoteAddr)
	indicator := gesture.NewIndicator()

	// Catch-up moves arrive on timer goroutines, so writes are serialized
	// and the change flag is atomic.
	var (
		writeMu sync.Mutex
		changed atomic.Bool
		win     *window.Window
	)
	mark := func() { changed.Store(true) }
	send := func(frame GeometryFrame) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		return conn.WriteJSON(frame)
	}
	sendGeometry := func() error {
		snap := win.Snapshot()
		return send(GeometryFrame{
			Type:        MessageGeometry,
			Position:    snap.Position,
			Size:        snap.Size,
			Dragging:    snap.Dragging,
			Resizing:    snap.Resizing,
			Initialized: snap.Initialized,
			Cursor:      indicator.Cursor(),
			Markers:     indicator.Markers(),
		})
	}

	win = window.New(window.Config{
		Placement:        cfg.Layout.Placement,
		ThrottleInterval: cfg.Layout.Throttle,
		Feedback:         gesture.Tee(indicator, gesture.LogFeedback{Logger: log}),
		Logger:           log,
		Observer: window.Funcs{
			OnPosition: func(geometry.Position) { mark() },
			OnSize:     func(geometry.Size) { mark() },
			OnGesture:  func(gesture.State) { mark() },
		},
		AfterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, func() {
				f()
				if changed.Swap(false) {
					if err := sendGeometry(); err != nil {
						log.Debug("failed to send catch-up geometry", "error", err)
					}
				}
			})
		},
	})
	defer win.Close()

	for {
		var msg WindowMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("window socket closed", "error", err)
			}
			return
		}

		changed.Store(false)
		switch msg.Type {
		case MessageViewport:
			if msg.Touch != nil {
				win.SetTouch(*msg.Touch)
			}
			win.SetViewport(msg.Viewport)
			// Always answer a measurement so the widget can render.
			changed.Store(true)
		case MessagePointer:
			if msg.Event == nil {
				send(GeometryFrame{Type: MessageError, Error: "pointer message without event"})
				continue
			}
			if !msg.Event.Kind.Valid() {
				send(GeometryFrame{Type: MessageError, Error: "unknown pointer kind " + string(msg.Event.Kind)})
				continue
			}
			win.HandlePointer(*msg.Event)
		default:
			send(GeometryFrame{Type: MessageError, Error: "unknown message type " + msg.Type})
			continue
		}

		if !changed.Swap(false) {
			continue
		}
		if err := sendGeometry(); err != nil {
			log.Warn("failed to send geometry", "error", err)
			return
		}
	}
}
