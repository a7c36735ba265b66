package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradepath/internal/grade"
)

// Color palette
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#10B981") // Emerald
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Tier emphasis colours.
var (
	EmphasisAlert     = lipgloss.Color("#EF4444")
	EmphasisWarning   = lipgloss.Color("#F59E0B")
	EmphasisPositive  = lipgloss.Color("#10B981")
	EmphasisHighlight = lipgloss.Color("#6366F1")
)

// EmphasisColor maps a tier emphasis to its colour. Unknown values get
// the dim text colour.
func EmphasisColor(e grade.Emphasis) color.Color {
	switch e {
	case grade.Alert:
		return EmphasisAlert
	case grade.Warning:
		return EmphasisWarning
	case grade.Positive:
		return EmphasisPositive
	case grade.Highlight:
		return EmphasisHighlight
	default:
		return TextDim
	}
}

// TierBadge renders a tier label on its emphasis colour.
func TierBadge(t grade.Tier) string {
	return lipgloss.NewStyle().
		Background(EmphasisColor(t.Emphasis())).
		Foreground(BgDark).
		Bold(true).
		Padding(0, 1).
		Render(t.Label())
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Missing = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Notice = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
