package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fanchat/fanchat/pkg/geometry"
)

var (
	colorAccent = lipgloss.Color("#F5C518")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(colorAccent).
			Padding(0, 1)

	viewportStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGrey)

	windowCellStyle = lipgloss.NewStyle().Foreground(colorAccent)
	headerCellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorAccent)
	emptyCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

// Grid maps viewport pixels onto terminal cells.
type Grid struct {
	Cols, Rows int
	// CellWidth and CellHeight are the pixels covered by one cell.
	CellWidth, CellHeight float64
}

// FitGrid picks a grid of at most maxCols columns that keeps the viewport's
// aspect ratio, assuming cells twice as tall as they are wide.
func FitGrid(vp geometry.Viewport, maxCols int) Grid {
	cols := maxCols
	cw := vp.Width / float64(cols)
	rows := max(1, int(math.Round(vp.Height/(cw*2))))
	return Grid{Cols: cols, Rows: rows, CellWidth: cw, CellHeight: vp.Height / float64(rows)}
}

// cellRect converts a layout into an inclusive cell rectangle.
func (g Grid) cellRect(l geometry.Layout) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(l.Position.X / g.CellWidth))
	y0 = int(math.Floor(l.Position.Y / g.CellHeight))
	x1 = int(math.Ceil((l.Position.X+l.Size.Width)/g.CellWidth)) - 1
	y1 = int(math.Ceil((l.Position.Y+l.Size.Height)/g.CellHeight)) - 1
	return
}

// Cell returns the pixel point at the centre of a cell.
func (g Grid) Cell(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * g.CellWidth, (float64(row) + 0.5) * g.CellHeight
}

// DrawWindow draws the viewport with the window on top of it. The first row
// of the window is its header and the bottom-right cell its resize handle.
func DrawWindow(g Grid, l geometry.Layout) string {
	x0, y0, x1, y1 := g.cellRect(l)

	var b strings.Builder
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			inside := col >= x0 && col <= x1 && row >= y0 && row <= y1
			switch {
			case !inside:
				b.WriteString(emptyCellStyle.Render("·"))
			case row == y0:
				b.WriteString(headerCellStyle.Render("▀"))
			case row == y1 && col == x1:
				b.WriteString(windowCellStyle.Render("◢"))
			case row == y1 || col == x0 || col == x1:
				b.WriteString(windowCellStyle.Render("█"))
			default:
				b.WriteString(" ")
			}
		}
		if row < g.Rows-1 {
			b.WriteByte('\n')
		}
	}
	return viewportStyle.Render(b.String())
}

// RenderLayout renders a computed layout with its numbers and a scaled
// drawing of the viewport.
func RenderLayout(vp geometry.Viewport, l geometry.Layout, device string, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⚽ FanChat layout"))
	b.WriteString("\n\n")
	b.WriteString(RenderKeyValue("viewport", fmt.Sprintf("%g × %g", vp.Width, vp.Height)) + "\n")
	b.WriteString(RenderKeyValue("device", device) + "\n")
	b.WriteString(RenderKeyValue("position", fmt.Sprintf("x=%g y=%g", l.Position.X, l.Position.Y)) + "\n")
	b.WriteString(RenderKeyValue("size", fmt.Sprintf("%g × %g", l.Size.Width, l.Size.Height)) + "\n\n")

	cols := min(max(width-2, 10), 100)
	b.WriteString(DrawWindow(FitGrid(vp, cols), l))
	b.WriteByte('\n')
	return b.String()
}
