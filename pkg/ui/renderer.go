package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders an assistant reply for the terminal. Replies are
// markdown with emoji; rendering falls back to the raw text on error.
func RenderMarkdown(input string, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	if width <= 0 || width > 100 {
		width = 100
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithEmoji(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return input
	}

	out, err := renderer.Render(input)
	if err != nil {
		return input
	}
	return out
}
