package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("226")
	colorWhite  = lipgloss.Color("252")
	colorGrey   = lipgloss.Color("240")

	headerStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	indentStyle = lipgloss.NewStyle().
			PaddingLeft(3)

	detailTextStyle = lipgloss.NewStyle().
			Foreground(colorGrey)

	hintTextStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// TerminalWidth returns the stdout width, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// RenderErrorBox renders an error banner with an optional detail line,
// wrapped to the terminal width.
func RenderErrorBox(title, detail string) string {
	contentWidth := TerminalWidth() - 5

	header := indentStyle.Render(headerStyle.Render(fmt.Sprintf("✕ %s", title)))
	if strings.TrimSpace(detail) == "" {
		return fmt.Sprintf("\n%s\n", header)
	}

	body := indentStyle.Render(detailTextStyle.Width(contentWidth).Render(strings.TrimSpace(detail)))
	return fmt.Sprintf("\n%s\n%s\n", header, body)
}

// RenderHint renders a one-line suggestion.
func RenderHint(text string) string {
	return indentStyle.Render(hintTextStyle.Render("→ " + text))
}

// RenderKeyValue renders an aligned label/value pair.
func RenderKeyValue(key, value string) string {
	k := lipgloss.NewStyle().Foreground(colorGrey).Width(18).Render(key)
	v := lipgloss.NewStyle().Foreground(colorWhite).Render(value)
	return k + v
}
