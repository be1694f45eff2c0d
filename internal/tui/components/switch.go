package components

import "github.com/colonyops/hitch/internal/core/styles"

// Switch is a labelled on/off toggle.
type Switch struct {
	Label string
	on    bool
}

// NewSwitch creates a switch in the given state.
func NewSwitch(label string, on bool) *Switch {
	return &Switch{Label: label, on: on}
}

// On reports whether the switch is on.
func (s *Switch) On() bool {
	return s.on
}

// Toggle flips the switch and returns the new state.
func (s *Switch) Toggle() bool {
	s.on = !s.on
	return s.on
}

// Set forces the switch state.
func (s *Switch) Set(on bool) {
	s.on = on
}

// View renders the switch followed by its label.
func (s *Switch) View() string {
	if s.on {
		return styles.SwitchOnStyle.Render(styles.IconSwitchOn+" on ") + " " + s.Label
	}
	return styles.SwitchOffStyle.Render(styles.IconSwitchOf+" off") + " " + s.Label
}
