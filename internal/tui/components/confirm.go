package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/hitch/internal/core/styles"
)

// Confirm is a yes/no prompt shown in place of the footer.
type Confirm struct {
	message   string
	confirmed bool
	cancelled bool
}

// NewConfirm creates a prompt asking message.
func NewConfirm(message string) Confirm {
	return Confirm{message: message}
}

// Update records the answer. Keys other than y/n/enter/esc are ignored.
func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		c.confirmed = true
	case "n", "N", "esc":
		c.cancelled = true
	}
	return c, nil
}

func (c Confirm) View() string {
	return styles.TextWarningStyle.Render(c.message) + "\n" +
		styles.TextForegroundStyle.Bold(true).Render("Continue? (y/n)")
}

func (c Confirm) Confirmed() bool { return c.confirmed }

func (c Confirm) Cancelled() bool { return c.cancelled }
