package styles

// Toast variant icons.
var (
	IconNotifyInfo    = "ℹ"
	IconNotifySuccess = "✔"
	IconNotifyWarning = "⚠"
	IconNotifyError   = "✖"
	IconNotifyPrimary = "●"
	IconNotifyAccent  = "★"
)

var (
	IconTrailer  = "⛟"
	IconCalendar = "◷"
	IconSwitchOn = "◉"
	IconSwitchOf = "○"
)
