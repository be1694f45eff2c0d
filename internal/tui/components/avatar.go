// Package components provides reusable TUI components.
package components

import (
	"image/color"
	"strings"
	"unicode"

	"github.com/colonyops/hitch/internal/core/styles"
)

// Avatar shows a person's initials on a color derived from their name.
type Avatar struct {
	Name string
}

// NewAvatar creates an avatar for name.
func NewAvatar(name string) Avatar {
	return Avatar{Name: name}
}

// Initials returns the uppercased first letters of up to two words of the
// name, or "?" when the name has none.
func (a Avatar) Initials() string {
	var b strings.Builder
	for _, word := range strings.Fields(a.Name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if b.Len() > 0 && len([]rune(b.String())) == 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// Color returns the avatar background. The same name always yields the same
// color.
func (a Avatar) Color() color.Color {
	if strings.TrimSpace(a.Name) == "" {
		return styles.ColorMuted
	}
	return styles.ColorForString(strings.ToLower(strings.TrimSpace(a.Name)))
}

// View renders the avatar badge.
func (a Avatar) View() string {
	return styles.AvatarStyle.Background(a.Color()).Render(a.Initials())
}
