package ui

import (
	"os"

	glamour "charm.land/glamour/v2"
	"charm.land/glamour/v2/styles"
	"golang.org/x/term"
)

// RenderMarkdown renders markdown text with glamour, word-wrapped to the
// terminal. Returns the original text if rendering fails or color is
// disabled.
func RenderMarkdown(markdown string) string {
	if !ShouldUseColor() {
		return markdown
	}
	return RenderMarkdownWidth(markdown, detectWidth())
}

// RenderMarkdownWidth renders markdown wrapped to an explicit width.
func RenderMarkdownWidth(markdown string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.DarkStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}

// Lines wider than this cause eye-tracking fatigue; cap the wrap.
const maxReadableWidth = 100

func detectWidth() int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	if width > maxReadableWidth {
		width = maxReadableWidth
	}
	return width
}
