// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/lucasb-eyer/go-colorful"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorAccent     color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
	ColorInfo       color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style

	// Dashboard.
	TitleStyle          lipgloss.Style
	SummaryStyle        lipgloss.Style
	TableHeaderStyle    lipgloss.Style
	TableRowStyle       lipgloss.Style
	TableSelectedStyle  lipgloss.Style
	DetailPaneStyle     lipgloss.Style
	DetailLabelStyle    lipgloss.Style
	ErrorBannerStyle    lipgloss.Style
	TextMutedStyle      lipgloss.Style
	TextForegroundStyle lipgloss.Style
	TextSuccessStyle    lipgloss.Style
	TextWarningStyle    lipgloss.Style
	TextErrorStyle      lipgloss.Style

	// Components.
	FooterStyle        lipgloss.Style
	FooterKeyStyle     lipgloss.Style
	FooterDescStyle    lipgloss.Style
	SwitchOnStyle      lipgloss.Style
	SwitchOffStyle     lipgloss.Style
	AvatarStyle        lipgloss.Style
	ToastStyle         lipgloss.Style
	ToastBarEmptyStyle lipgloss.Style
)

// ColorPool is used for deterministic color hashing of names.
var ColorPool []color.Color

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorAccent = p.Accent
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error
	ColorInfo = p.Info

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	SummaryStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	TableHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)
	TableRowStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	TableSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorPrimary).
		Bold(true)
	DetailPaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface).
		Padding(0, 1)
	DetailLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(10)
	ErrorBannerStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
	TextMutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	TextForegroundStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	TextSuccessStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	FooterStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 1)
	FooterKeyStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	FooterDescStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	SwitchOnStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess).
		Bold(true)
	SwitchOffStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	AvatarStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Bold(true).
		Padding(0, 1)
	ToastStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastBarEmptyStyle = lipgloss.NewStyle().
		Foreground(ColorSurface)

	ColorPool = []color.Color{
		ColorPrimary,
		ColorSecondary,
		ColorAccent,
		ColorSuccess,
		ColorWarning,
		ColorInfo,
	}
}

// ColorForString returns a deterministic color for a given string.
// The same string always produces the same color.
func ColorForString(s string) color.Color {
	var hash uint32
	for _, c := range s {
		hash = hash*31 + uint32(c)
	}
	return ColorPool[hash%uint32(len(ColorPool))]
}

// Blend mixes from toward to by t in [0, 1] in Lab space. Colors that cannot
// be converted are returned unchanged.
func Blend(from, to color.Color, t float64) color.Color {
	a, ok := colorful.MakeColor(from)
	if !ok {
		return from
	}
	b, ok := colorful.MakeColor(to)
	if !ok {
		return from
	}
	return a.BlendLab(b, t).Clamped()
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c color.Color) *string {
	if c == nil {
		return nil
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(ColorForeground)
	primary := colorHexPtr(ColorPrimary)
	secondary := colorHexPtr(ColorSecondary)
	muted := colorHexPtr(ColorMuted)

	cfg.Document.Color = fg
	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = primary
	cfg.H2.Color = primary
	cfg.H3.Color = secondary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Table.Color = fg

	return cfg
}
