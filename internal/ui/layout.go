package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sk-py/maildraft/internal/theme"
)

// Layout manages the terminal frame: a one-line header, the content
// area, and a one-line status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	return l.Height - 2
}

// RenderHeader renders the top bar with the app title on the left and a
// state indicator on the right.
func (l Layout) RenderHeader(title, state string) string {
	left := theme.HeaderStyle.Render(title)
	right := theme.HeaderStyle.Render(state)

	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	filler := theme.HeaderStyle.
		Padding(0).
		Width(gap).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, filler, right)
}

// RenderStatusBar renders the bottom bar. The content is either key
// hints or an active toast, already styled by the caller.
func (l Layout) RenderStatusBar(content string) string {
	gap := l.Width - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	filler := theme.StatusBarStyle.
		Padding(0).
		Width(gap).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, content, filler)
}

// RenderWithFrame composes the full terminal view.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
