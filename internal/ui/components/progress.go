package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradepath/internal/ui/theme"
)

// ProgressBar displays a horizontal bar filled to Percent (0..1).
type ProgressBar struct {
	Label   string
	Percent float64
	Caption string
	Width   int
	Fill    color.Color
}

// NewProgressBar creates a bar in the secondary colour.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Width:   width,
		Fill:    theme.Secondary,
	}
}

// NewGradeBar shows g on the 0-20 scale, coloured by fill.
func NewGradeBar(g float64, fill color.Color, width int) ProgressBar {
	return ProgressBar{
		Percent: g / 20,
		Caption: fmt.Sprintf("%.1f/20", g),
		Width:   width,
		Fill:    fill,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	captionWidth := 0
	if p.Caption != "" {
		captionWidth = len(p.Caption) + 2
	}

	barWidth := max(p.Width-lipgloss.Width(result)-captionWidth, 4)

	filled := min(max(int(float64(barWidth)*p.Percent), 0), barWidth)
	empty := barWidth - filled

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}

	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	if p.Caption != "" {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  " + p.Caption)
	}

	return result
}
