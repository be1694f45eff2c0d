package responsive

import (
	"os"

	"golang.org/x/term"
)

// Environment reports the current display size. ok is false when there is
// no display to measure.
type Environment interface {
	Size() (s Size, ok bool)
}

// Terminal measures a terminal file descriptor, normally stdout.
type Terminal struct {
	fd int
}

// NewTerminal measures f.
func NewTerminal(f *os.File) Terminal {
	return Terminal{fd: int(f.Fd())}
}

// Size implements Environment.
func (t Terminal) Size() (Size, bool) {
	if !term.IsTerminal(t.fd) {
		return Size{}, false
	}
	w, h, err := term.GetSize(t.fd)
	if err != nil || w <= 0 || h <= 0 {
		return Size{}, false
	}
	return Size{Width: w, Height: h}, true
}

// Headless is an environment with no display.
type Headless struct{}

// Size implements Environment.
func (Headless) Size() (Size, bool) {
	return Size{}, false
}

// Fixed always reports the same size.
type Fixed Size

// Size implements Environment.
func (f Fixed) Size() (Size, bool) {
	return Size(f), true
}
