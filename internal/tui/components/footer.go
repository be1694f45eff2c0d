package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/hitch/internal/core/styles"
)

// compactHints is how many key hints a compact footer keeps.
const compactHints = 2

// Footer is the bottom bar: key hints on the left, the signed-in user and
// build version on the right.
type Footer struct {
	Bindings []key.Binding
	User     string
	Version  string
	Compact  bool
}

func (f Footer) hints() string {
	parts := make([]string, 0, len(f.Bindings))
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, styles.FooterKeyStyle.Render(h.Key)+" "+styles.FooterDescStyle.Render(h.Desc))
		if f.Compact && len(parts) == compactHints {
			break
		}
	}
	return strings.Join(parts, styles.FooterDescStyle.Render(" • "))
}

func (f Footer) status() string {
	var parts []string
	if f.User != "" {
		parts = append(parts, f.User)
	}
	if f.Version != "" && !f.Compact {
		parts = append(parts, f.Version)
	}
	return styles.FooterDescStyle.Render(strings.Join(parts, "  "))
}

// View renders the footer to exactly width cells.
func (f Footer) View(width int) string {
	inner := max(width-styles.FooterStyle.GetHorizontalPadding(), 0)

	left := f.hints()
	right := f.status()

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = ansi.Truncate(left, max(inner-lipgloss.Width(right)-1, 0), "…")
		gap = max(inner-lipgloss.Width(left)-lipgloss.Width(right), 0)
	}

	line := left + Pad(gap) + right
	if lipgloss.Width(line) > inner {
		line = ansi.Truncate(line, inner, "")
	}
	return styles.FooterStyle.Render(line)
}
