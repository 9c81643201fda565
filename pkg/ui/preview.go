package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fanchat/fanchat/pkg/demo"
	"github.com/fanchat/fanchat/pkg/geometry"
	"github.com/fanchat/fanchat/pkg/gesture"
	"github.com/fanchat/fanchat/pkg/window"
)

// Pixels covered by one terminal cell in the preview.
const (
	previewCellWidth  = 10
	previewCellHeight = 20
)

var statusStyle = lipgloss.NewStyle().Foreground(colorGrey)

// PreviewModel lets the window be dragged and resized with the terminal
// mouse. Each cell stands for a fixed block of pixels, so the viewport
// follows the terminal size.
type PreviewModel struct {
	win       *window.Window
	indicator *gesture.Indicator
	grid      Grid
	touch     bool
	recorder  *demo.Recorder
}

// catchUpMsg asks the preview to apply a move the throttle held back.
type catchUpMsg struct{}

// NewPreview creates a preview. cfg.Feedback is wrapped so the preview can
// show the active cursor and markers. Held-back moves are applied from the
// program's own event loop so the screen redraws when they land.
func NewPreview(cfg window.Config) PreviewModel {
	cfg.AfterFunc = func(time.Duration, func()) {}
	indicator := gesture.NewIndicator()
	if cfg.Feedback != nil {
		cfg.Feedback = gesture.Tee(indicator, cfg.Feedback)
	} else {
		cfg.Feedback = indicator
	}
	return PreviewModel{
		win:       window.New(cfg),
		indicator: indicator,
		touch:     cfg.Touch,
	}
}

// Record makes the preview log every viewport change and pointer event.
func (m PreviewModel) Record(r *demo.Recorder) PreviewModel {
	m.recorder = r
	return m
}

func (m PreviewModel) handle(ev gesture.PointerEvent) tea.Cmd {
	if m.recorder != nil {
		m.recorder.AddPointer(ev)
	}
	m.win.HandlePointer(ev)
	return m.catchUp()
}

func (m PreviewModel) catchUp() tea.Cmd {
	d, ok := m.win.Pending()
	if !ok {
		return nil
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return catchUpMsg{} })
}

// Window returns the previewed window.
func (m PreviewModel) Window() *window.Window {
	return m.win
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

// target hit-tests a cell against the current layout.
func (m PreviewModel) target(col, row int) gesture.Target {
	snap := m.win.Snapshot()
	x0, y0, x1, y1 := m.grid.cellRect(geometry.Layout{Position: snap.Position, Size: snap.Size})
	switch {
	case col < x0 || col > x1 || row < y0 || row > y1:
		return nil
	case col == x1 && row == y1:
		return gesture.Target{gesture.RoleResizeHandle, gesture.RoleWindow}
	case row == y0:
		return gesture.Target{gesture.RoleDragRegion, gesture.RoleWindow}
	default:
		return gesture.Target{gesture.RoleContent, gesture.RoleWindow}
	}
}

func (m PreviewModel) pointer(kind gesture.Kind, col, row int) gesture.PointerEvent {
	x, y := m.grid.Cell(col, row)
	source := gesture.SourceMouse
	if m.touch {
		source = gesture.SourceTouch
	}
	ev := gesture.PointerEvent{Kind: kind, Source: source, X: x, Y: y}
	if kind == gesture.KindDown {
		ev.Target = m.target(col, row)
	}
	return ev
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// One row for the status line, two for the border.
		m.grid = Grid{
			Cols:       max(1, msg.Width-2),
			Rows:       max(1, msg.Height-3),
			CellWidth:  previewCellWidth,
			CellHeight: previewCellHeight,
		}
		vp := geometry.Viewport{
			Width:  float64(m.grid.Cols * previewCellWidth),
			Height: float64(m.grid.Rows * previewCellHeight),
		}
		if m.recorder != nil {
			m.recorder.AddViewport(vp)
		}
		m.win.SetViewport(vp)

	case tea.MouseMsg:
		if m.grid.Cols == 0 {
			return m, nil
		}
		// Offset by the viewport border.
		col, row := msg.X-1, msg.Y-1
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			return m, m.handle(m.pointer(gesture.KindDown, col, row))
		case msg.Action == tea.MouseActionMotion:
			return m, m.handle(m.pointer(gesture.KindMove, col, row))
		case msg.Action == tea.MouseActionRelease:
			return m, m.handle(m.pointer(gesture.KindUp, col, row))
		}

	case catchUpMsg:
		m.win.Tick()
		return m, m.catchUp()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.win.Close()
			return m, tea.Quit
		case "esc":
			return m, m.handle(gesture.PointerEvent{Kind: gesture.KindCancel})
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	if m.grid.Cols == 0 {
		return "measuring terminal..."
	}
	snap := m.win.Snapshot()

	var status []string
	status = append(status, fmt.Sprintf("pos %g,%g", snap.Position.X, snap.Position.Y))
	status = append(status, fmt.Sprintf("size %g×%g", snap.Size.Width, snap.Size.Height))
	status = append(status, fmt.Sprintf("viewport %g×%g", snap.Viewport.Width, snap.Viewport.Height))
	if c := m.indicator.Cursor(); c != "" {
		status = append(status, "cursor "+c)
	}
	if markers := m.indicator.Markers(); len(markers) > 0 {
		status = append(status, strings.Join(markers, ","))
	}
	status = append(status, "q quit · esc cancel")

	return DrawWindow(m.grid, geometry.Layout{Position: snap.Position, Size: snap.Size}) + "\n" +
		statusStyle.Render(strings.Join(status, " · "))
}

// RunPreview runs the interactive preview until the user quits. A non-nil
// recorder captures the session.
func RunPreview(cfg window.Config, recorder *demo.Recorder) error {
	p := tea.NewProgram(NewPreview(cfg).Record(recorder), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
