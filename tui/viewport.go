// viewport.go provides a scrollable viewport for the chat transcript,
// with soft wrapping of long lines.
package tui

import (
	"strings"
)

// Viewport is a scrollable text area.
type Viewport struct {
	width   int
	height  int
	content []string // logical lines of content
	scrollY int      // vertical scroll offset into wrapped lines
}

// NewViewport creates a viewport with the given dimensions.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:  width,
		height: height,
	}
}

// SetContentLines replaces the viewport content with pre-split lines.
func (v *Viewport) SetContentLines(lines []string) {
	v.content = lines
	v.clampScroll()
}

// SetSize updates viewport dimensions.
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampScroll()
}

// ScrollUp moves the viewport up by n lines.
func (v *Viewport) ScrollUp(n int) {
	v.scrollY -= n
	v.clampScroll()
}

// ScrollDown moves the viewport down by n lines.
func (v *Viewport) ScrollDown(n int) {
	v.scrollY += n
	v.clampScroll()
}

// PageUp scrolls up one page.
func (v *Viewport) PageUp() {
	v.ScrollUp(v.height)
}

// PageDown scrolls down one page.
func (v *Viewport) PageDown() {
	v.ScrollDown(v.height)
}

// End jumps to the bottom of the content.
func (v *Viewport) End() {
	v.scrollY = len(v.wrapped())
	v.clampScroll()
}

// Render produces the visible window as a single string.
func (v *Viewport) Render() string {
	lines := v.wrapped()

	start := v.scrollY
	if start > len(lines) {
		start = len(lines)
	}
	end := start + v.height
	if end > len(lines) {
		end = len(lines)
	}

	visible := make([]string, 0, v.height)
	visible = append(visible, lines[start:end]...)
	for len(visible) < v.height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

// wrapped expands logical lines into display lines of viewport width.
func (v *Viewport) wrapped() []string {
	if v.width <= 0 {
		return v.content
	}
	var out []string
	for _, line := range v.content {
		out = append(out, wrapLine(line, v.width)...)
	}
	return out
}

// clampScroll keeps scrollY within content bounds.
func (v *Viewport) clampScroll() {
	max := len(v.wrapped()) - v.height
	if max < 0 {
		max = 0
	}
	if v.scrollY > max {
		v.scrollY = max
	}
	if v.scrollY < 0 {
		v.scrollY = 0
	}
}

// wrapLine soft-wraps a line at rune boundaries.
func wrapLine(line string, width int) []string {
	runes := []rune(line)
	if len(runes) <= width {
		return []string{line}
	}
	var out []string
	for len(runes) > width {
		out = append(out, string(runes[:width]))
		runes = runes[width:]
	}
	out = append(out, string(runes))
	return out
}
