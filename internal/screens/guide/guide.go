// Package guide lists how every profile field is coded.
package guide

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/screen"
	"github.com/abhisek/gradepath/internal/ui/components"
	"github.com/abhisek/gradepath/internal/ui/layout"
	"github.com/abhisek/gradepath/internal/ui/theme"
)

// GuideScreen is a scrollable field reference.
type GuideScreen struct {
	scroll int
}

var _ screen.Screen = (*GuideScreen)(nil)

func New() *GuideScreen {
	return &GuideScreen{}
}

func (g *GuideScreen) Title() string { return "Field Guide" }

func (g *GuideScreen) Init() tea.Cmd { return nil }

func (g *GuideScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return g, nil
	}
	switch kmsg.String() {
	case "up", "k":
		g.scroll = max(g.scroll-1, 0)
	case "down", "j":
		g.scroll++
	case "pgup":
		g.scroll = max(g.scroll-10, 0)
	case "pgdown":
		g.scroll += 10
	case "home", "g":
		g.scroll = 0
	}
	return g, nil
}

// Lines renders the guide at width cw, one group at a time in display
// order.
func Lines(cw int) []string {
	byGroup := map[string][]profile.Field{}
	for _, f := range profile.Fields() {
		byGroup[f.Group] = append(byGroup[f.Group], f)
	}

	label := lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	text := lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).PaddingLeft(2)

	var lines []string
	for i, group := range profile.Groups() {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, theme.Heading.Render(group))
		for _, f := range byGroup[group] {
			lines = append(lines,
				label.Render(f.Label)+theme.Hint.Render(" ("+f.Column+")"),
				text.Render(f.Guide))
		}
	}
	return strings.Split(strings.Join(lines, "\n"), "\n")
}

func (g *GuideScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	lines := Lines(cw)

	size := max(height-2, 1)
	g.scroll = min(g.scroll, max(len(lines)-size, 0))
	end := min(g.scroll+size, len(lines))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(strings.Join(lines[g.scroll:end], "\n")))
}

func (g *GuideScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "Esc", Description: "Back"},
	}
}
