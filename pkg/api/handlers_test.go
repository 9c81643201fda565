package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fanchat/fanchat/pkg/chat"
	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/gesture"
	"github.com/gorilla/websocket"
)

func doJSON(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode error = %v", err)
		}
	}
	return resp.StatusCode
}

func TestSessionLifecycle(t *testing.T) {
	server, _ := newTestServer(t, &fakeLLM{})

	var s chat.Session
	if status := doJSON(t, "POST", server.URL+"/api/sessions", "", &s); status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	base := server.URL + "/api/sessions/" + s.ID

	var updated chat.Session
	if status := doJSON(t, "PATCH", base+"/settings", `{"fontSize":30,"theme":"dark","faqsOpen":true}`, &updated); status != http.StatusOK {
		t.Fatalf("settings status = %d", status)
	}
	if updated.Settings != (chat.Settings{FontSize: chat.MaxFontSize, Theme: chat.ThemeDark, FAQsOpen: true}) {
		t.Errorf("settings = %+v", updated.Settings)
	}

	var picked QuestionResponse
	if status := doJSON(t, "POST", base+"/questions", `{"question":"Quem é o capitão?"}`, &picked); status != http.StatusOK {
		t.Fatalf("questions status = %d", status)
	}
	if picked.Question != "Quem é o capitão?" || picked.Session.Settings.FAQsOpen {
		t.Errorf("question response = %+v", picked)
	}

	var reset chat.Session
	if status := doJSON(t, "POST", base+"/reset", "", &reset); status != http.StatusOK {
		t.Fatalf("reset status = %d", status)
	}
	if reset.Settings.Theme != chat.ThemeDark {
		t.Errorf("reset lost settings: %+v", reset.Settings)
	}

	if status := doJSON(t, "DELETE", base+"/error", "", nil); status != http.StatusOK {
		t.Errorf("dismiss status = %d", status)
	}
}

func TestSessionErrors(t *testing.T) {
	server, h := newTestServer(t, &fakeLLM{})
	s := h.Sessions.Create()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown session", "GET", "/api/sessions/missing", "", http.StatusNotFound},
		{"bad theme", "PATCH", "/api/sessions/" + s.ID + "/settings", `{"theme":"neon"}`, http.StatusBadRequest},
		{"blank question", "POST", "/api/sessions/" + s.ID + "/questions", `{"question":"  "}`, http.StatusBadRequest},
		{"wrong method", "PUT", "/api/sessions/" + s.ID, "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := doJSON(t, tt.method, server.URL+tt.path, tt.body, nil); status != tt.status {
				t.Errorf("status = %d, expected %d", status, tt.status)
			}
		})
	}
}

func TestFAQsHandler(t *testing.T) {
	server, _ := newTestServer(t, &fakeLLM{})
	var out struct {
		Categories []chat.FAQCategory `json:"categories"`
	}
	if status := doJSON(t, "GET", server.URL+"/api/faqs", "", &out); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(out.Categories) != len(chat.FAQs()) {
		t.Errorf("got %d categories", len(out.Categories))
	}
}

func TestLayoutHandler(t *testing.T) {
	server, _ := newTestServer(t, &fakeLLM{})

	tests := []struct {
		name     string
		body     string
		status   int
		expected LayoutResponse
	}{
		{
			name:     "desktop initial",
			body:     `{"viewport":{"width":1000,"height":800}}`,
			status:   http.StatusOK,
			expected: LayoutResponse{Layout: geometry.Layout{Position: geometry.Position{X: 120, Y: 40}, Size: geometry.Size{Width: 400, Height: 640}}, Device: "desktop"},
		},
		{
			name:     "touch initial",
			body:     `{"viewport":{"width":1000,"height":800},"touch":true}`,
			status:   http.StatusOK,
			expected: LayoutResponse{Layout: geometry.Layout{Position: geometry.Position{X: 50, Y: 80}, Size: geometry.Size{Width: 900, Height: 560}}, Device: "mobile"},
		},
		{
			name:     "reclamp current",
			body:     `{"viewport":{"width":700,"height":500},"current":{"position":{"x":600,"y":100},"size":{"width":500,"height":600}}}`,
			status:   http.StatusOK,
			expected: LayoutResponse{Layout: geometry.Layout{Position: geometry.Position{X: 200, Y: 0}, Size: geometry.Size{Width: 500, Height: 500}}, Device: "desktop"},
		},
		{
			name:   "unmeasured viewport",
			body:   `{"viewport":{"width":0,"height":800}}`,
			status: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got LayoutResponse
			status := doJSON(t, "POST", server.URL+"/api/layout", tt.body, &got)
			if status != tt.status {
				t.Fatalf("status = %d, expected %d", status, tt.status)
			}
			if status == http.StatusOK && got != tt.expected {
				t.Errorf("layout = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestWindowSocket(t *testing.T) {
	server, _ := newTestServer(t, &fakeLLM{})
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/window"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	exchange := func(msg WindowMessage) GeometryFrame {
		t.Helper()
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
		var frame GeometryFrame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		return frame
	}

	frame := exchange(WindowMessage{Type: MessageViewport, Viewport: geometry.Viewport{Width: 1000, Height: 800}})
	if !frame.Initialized || frame.Position != (geometry.Position{X: 120, Y: 40}) || frame.Size != (geometry.Size{Width: 400, Height: 640}) {
		t.Fatalf("initial frame = %+v", frame)
	}

	header := gesture.Target{gesture.RoleDragRegion, gesture.RoleWindow}
	frame = exchange(WindowMessage{Type: MessagePointer, Event: &gesture.PointerEvent{Kind: gesture.KindDown, Source: gesture.SourceMouse, X: 120, Y: 60, Target: header}})
	if !frame.Dragging || frame.Cursor != gesture.CursorGrabbing {
		t.Errorf("after down = %+v", frame)
	}

	// Throttling may hold back the move; the release flushes it.
	conn.WriteJSON(WindowMessage{Type: MessagePointer, Event: &gesture.PointerEvent{Kind: gesture.KindMove, Source: gesture.SourceMouse, X: 2000, Y: 60}})
	var last GeometryFrame
	if err := conn.WriteJSON(WindowMessage{Type: MessagePointer, Event: &gesture.PointerEvent{Kind: gesture.KindUp, Source: gesture.SourceMouse, X: 2000, Y: 60}}); err != nil {
		t.Fatal(err)
	}
	for {
		if err := conn.ReadJSON(&last); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if !last.Dragging {
			break
		}
	}
	if last.Position != (geometry.Position{X: 600, Y: 40}) {
		t.Errorf("position after drag = %+v, expected the right edge", last.Position)
	}
	if last.Cursor != "" || len(last.Markers) != 0 {
		t.Errorf("feedback not reverted: %+v", last)
	}

	frame = exchange(WindowMessage{Type: "bogus"})
	if frame.Type != MessageError {
		t.Errorf("unknown message answered with %+v", frame)
	}

	frame = exchange(WindowMessage{Type: MessagePointer, Event: &gesture.PointerEvent{Kind: "wheel", X: 10, Y: 10}})
	if frame.Type != MessageError || !strings.Contains(frame.Error, "wheel") {
		t.Errorf("unknown pointer kind answered with %+v", frame)
	}
}

func TestWindowSocketCatchesUpWithoutFurtherInput(t *testing.T) {
	server, _ := newTestServer(t, &fakeLLM{})
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/window"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	send := func(msg WindowMessage) {
		t.Helper()
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
	}
	send(WindowMessage{Type: MessageViewport, Viewport: geometry.Viewport{Width: 1000, Height: 800}})
	header := gesture.Target{gesture.RoleDragRegion, gesture.RoleWindow}
	send(WindowMessage{Type: MessagePointer, Event: &gesture.PointerEvent{Kind: gesture.KindDown, Source: gesture.SourceMouse, X: 200, Y: 60, Target: header}})
	send(WindowMessage{Type: MessagePointer, Event: &gesture.PointerEvent{Kind: gesture.KindMove, Source: gesture.SourceMouse, X: 210, Y: 60}})
	send(WindowMessage{Type: MessagePointer, Event: &gesture.PointerEvent{Kind: gesture.KindMove, Source: gesture.SourceMouse, X: 530, Y: 60}})

	// The last move may be held by the throttle; the server must still
	// deliver it while the pointer rests.
	for {
		var frame GeometryFrame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("ReadJSON() error = %v, the held move was never delivered", err)
		}
		if frame.Dragging && frame.Position == (geometry.Position{X: 450, Y: 40}) {
			return
		}
	}
}
