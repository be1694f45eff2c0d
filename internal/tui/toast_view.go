package tui

import (
	"image/color"
	"math"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/hitch/internal/core/styles"
	"github.com/colonyops/hitch/internal/core/toast"
)

const (
	toastWidth    = 42
	toastBarGlyph = "━"
	// enteringDim is how far an entering toast is blended toward the
	// background before it becomes visible.
	enteringDim = 0.6
)

type toastTickMsg time.Time

func scheduleToastTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders the toast stack and composites it as an overlay.
type ToastView struct {
	manager    *toast.Manager
	maxVisible int
}

// NewToastView creates a view over the manager's toasts. Only the newest
// maxVisible toasts are drawn; the rest stay in the collection and keep
// counting down.
func NewToastView(manager *toast.Manager, maxVisible int) *ToastView {
	return &ToastView{manager: manager, maxVisible: max(maxVisible, 1)}
}

func (v *ToastView) visible() []*toast.Item {
	items := v.manager.Items()
	if len(items) > v.maxVisible {
		items = items[len(items)-v.maxVisible:]
	}
	return items
}

// View renders the toast stack with the oldest at the top and the newest at
// the bottom.
func (v *ToastView) View() string {
	items := v.visible()
	if len(items) == 0 {
		return ""
	}

	now := v.manager.Now()
	rendered := make([]string, 0, len(items))
	for _, it := range items {
		if it.State() == toast.StateRemoved {
			continue
		}
		rendered = append(rendered, renderToast(it, now))
	}

	return strings.Join(rendered, "\n")
}

func variantColor(v toast.Variant) color.Color {
	switch v {
	case toast.VariantPrimary:
		return styles.ColorPrimary
	case toast.VariantSecondary:
		return styles.ColorSecondary
	case toast.VariantAccent:
		return styles.ColorAccent
	case toast.VariantSuccess:
		return styles.ColorSuccess
	case toast.VariantError:
		return styles.ColorError
	case toast.VariantWarning:
		return styles.ColorWarning
	default:
		return styles.ColorInfo
	}
}

func variantIcon(v toast.Variant) string {
	switch v {
	case toast.VariantPrimary, toast.VariantSecondary:
		return styles.IconNotifyPrimary
	case toast.VariantAccent:
		return styles.IconNotifyAccent
	case toast.VariantSuccess:
		return styles.IconNotifySuccess
	case toast.VariantError:
		return styles.IconNotifyError
	case toast.VariantWarning:
		return styles.IconNotifyWarning
	default:
		return styles.IconNotifyInfo
	}
}

func renderToast(it *toast.Item, now time.Time) string {
	accent := variantColor(it.Variant)
	text := styles.ColorForeground

	switch it.State() {
	case toast.StateEntering:
		accent = styles.Blend(accent, styles.ColorBackground, enteringDim)
		text = styles.Blend(text, styles.ColorBackground, enteringDim)
	case toast.StateLeaving:
		f := it.LeaveFraction(now)
		accent = styles.Blend(accent, styles.ColorBackground, f)
		text = styles.Blend(text, styles.ColorBackground, f)
	}

	inner := toastWidth - styles.ToastStyle.GetHorizontalFrameSize()
	icon := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(variantIcon(it.Variant))
	msg := strings.Join(strings.Fields(it.Message), " ")
	msg = lipgloss.NewStyle().Foreground(text).Render(ansi.Truncate(msg, max(inner-2, 1), "…"))

	content := icon + " " + msg + "\n" + progressBar(it.Remaining(), inner, accent)
	return styles.ToastStyle.BorderForeground(accent).Width(toastWidth).Render(content)
}

// progressBar draws the remaining countdown as a bar that empties from the
// right.
func progressBar(remaining float64, width int, c color.Color) string {
	if width <= 0 {
		return ""
	}
	filled := barFill(remaining, width)

	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat(toastBarGlyph, filled)) +
		styles.ToastBarEmptyStyle.Render(strings.Repeat(toastBarGlyph, width-filled))
}

// barFill returns how many of width cells represent remaining.
func barFill(remaining float64, width int) int {
	filled := int(math.Round(remaining * float64(width)))
	return min(max(filled, 0), width)
}

// Overlay composites the toast stack over background in the lower-right corner.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(toastContent)

	toastW := lipgloss.Width(toastContent)
	toastH := lipgloss.Height(toastContent)

	rightX := max(width-toastW-1, 0)
	bottomY := max(height-toastH, 0)

	toastLayer.X(rightX).Y(bottomY).Z(2)

	compositor := lipgloss.NewCompositor(bgLayer, toastLayer)
	return compositor.Render()
}
