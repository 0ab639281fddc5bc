package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/darsihq/darsi/internal/ui/theme"
)

// ProgressBar renders a fixed-width horizontal bar. Percent is 0..1;
// values outside the range are clamped. The lesson screen uses it for
// playback position, the dashboard for completion rate.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

func (p ProgressBar) View() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label))
		b.WriteString("  ")
	}

	suffix := 0
	if p.ShowPercent {
		suffix = 6 // "  100%"
	}
	barWidth := max(p.Width-lipgloss.Width(b.String())-suffix, 4)

	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)

	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled)))

	if p.ShowPercent {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100))))
	}

	return b.String()
}
