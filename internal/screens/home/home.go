package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradepath/internal/router"
	"github.com/abhisek/gradepath/internal/screen"
	"github.com/abhisek/gradepath/internal/screens/form"
	"github.com/abhisek/gradepath/internal/screens/guide"
	"github.com/abhisek/gradepath/internal/screens/result"
	"github.com/abhisek/gradepath/internal/ui/components"
	"github.com/abhisek/gradepath/internal/ui/theme"
)

const buttonWidth = 26

// HomeScreen is the main menu.
type HomeScreen struct {
	menu   components.Menu
	status string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. opts is handed to every new prediction.
func New(opts result.Options) *HomeScreen {
	items := []components.MenuItem{
		{
			Label: "NEW PREDICTION",
			Hint:  "Enter a student profile and predict the final grade",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: form.New(opts)}
				}
			},
		},
		{
			Label: "FIELD GUIDE",
			Hint:  "How each profile field is coded",
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: guide.New()}
				}
			},
		},
		{
			Label:  "QUIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}

	status := "Predictor: " + opts.Predictor.Name()
	if opts.Mailer != nil && opts.Mailer.Enabled() {
		status += "  ·  email on"
	}

	return &HomeScreen{
		menu:   components.NewMenu(items),
		status: status,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	sections := []string{
		center.Render(theme.Title.Render("Student Achievement Predictor")),
		center.Render(theme.Subtitle.Render("Final grade (G3) on the 0-20 scale, with recommendations")),
		center.Render(h.menu.View(buttonWidth)),
		center.Render(theme.Hint.Render(h.status)),
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
