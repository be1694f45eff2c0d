package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

const maxCachedPad = 200

var (
	paddingCache [maxCachedPad + 1]string
	paddingOnce  sync.Once
)

// Pad returns a string of n spaces. Widths up to 200 are cached.
func Pad(n int) string {
	if n <= 0 {
		return ""
	}
	if n > maxCachedPad {
		return strings.Repeat(" ", n)
	}
	paddingOnce.Do(func() {
		for i := range paddingCache {
			paddingCache[i] = strings.Repeat(" ", i)
		}
	})
	return paddingCache[n]
}

// Fit truncates s to width cells, adding an ellipsis when cut, and pads
// the result with spaces to exactly width cells. ANSI sequences are kept.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	return s + Pad(width-ansi.StringWidth(s))
}
