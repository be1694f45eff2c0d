package tui

import "charm.land/bubbles/v2/key"

// keyMap holds the dashboard's key bindings.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Refresh    key.Binding
	TogglePast key.Binding
	Cancel     key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	Quit       key.Binding
}

func defaultKeyMap(readOnly bool) keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		TogglePast: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "past"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cancel"),
			key.WithDisabled(),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "dismiss all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}.withCancel(!readOnly)
}

func (k keyMap) withCancel(enabled bool) keyMap {
	k.Cancel.SetEnabled(enabled)
	return k
}

// footerBindings returns the bindings shown in the footer, most important
// first so compact layouts keep the useful ones.
func (k keyMap) footerBindings() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Down, k.Up, k.TogglePast, k.Cancel, k.Dismiss, k.DismissAll}
}
