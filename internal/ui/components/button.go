package components

import (
	"github.com/aeriel/clai/internal/ui/theme"
)

// Button renders the primary action of a screen. A disabled button is
// drawn dimmed and carries no key binding of its own.
type Button struct {
	Label   string
	Enabled bool
}

func NewButton(label string, enabled bool) Button {
	return Button{Label: label, Enabled: enabled}
}

func (b Button) View() string {
	if b.Enabled {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
