package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/aeriel/clai/internal/ui/theme"
)

// ProgressBar renders label, a bar filled to fraction (0..1) and the
// percentage, fitted into width cells.
func ProgressBar(label string, fraction float64, width int) string {
	var result string
	if label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	const percentWidth = 6 // "  100%"
	barWidth := width - lipgloss.Width(result) - percentWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * fraction)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	result += lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d%%", int(fraction*100)))
	return result
}
