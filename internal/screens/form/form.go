// Package form collects a student profile one field at a time.
package form

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/goccy/go-json"

	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/router"
	"github.com/abhisek/gradepath/internal/screen"
	"github.com/abhisek/gradepath/internal/screens/result"
	"github.com/abhisek/gradepath/internal/ui/components"
	"github.com/abhisek/gradepath/internal/ui/layout"
	"github.com/abhisek/gradepath/internal/ui/theme"
)

// MissingFieldsMessage is shown when the form is submitted incomplete.
const MissingFieldsMessage = "Please fill in all fields before predicting the final grade."

const labelWidth = 30

// FormScreen is the profile entry form. The cursor ranges over the fields
// and then the submit button.
type FormScreen struct {
	opts    result.Options
	inputs  []components.FieldInput
	submit  components.Button
	cursor  int
	message string
	invalid map[string]bool
}

var _ screen.Screen = (*FormScreen)(nil)

// New creates an empty form.
func New(opts result.Options) *FormScreen {
	fields := profile.Fields()
	inputs := make([]components.FieldInput, len(fields))
	for i, f := range fields {
		inputs[i] = components.NewFieldInput(f)
	}
	f := &FormScreen{opts: opts, inputs: inputs}
	f.submit = components.NewButton("Predict Final Grade", f.onSubmit)
	return f
}

// NewFilled creates a form pre-filled from p.
func NewFilled(opts result.Options, p profile.Profile) *FormScreen {
	f := New(opts)
	f.fill(p)
	return f
}

func (f *FormScreen) fill(p profile.Profile) {
	for i, v := range p.Row() {
		f.inputs[i].Set(v)
	}
	f.message = ""
	f.invalid = nil
}

func (f *FormScreen) Title() string {
	return "New Prediction"
}

func (f *FormScreen) Init() tea.Cmd {
	return nil
}

func (f *FormScreen) onSubmitRow() bool {
	return f.cursor == len(f.inputs)
}

func (f *FormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}

	switch kmsg.String() {
	case "up", "shift+tab":
		f.move(-1)
		return f, nil
	case "down", "tab":
		f.move(1)
		return f, nil
	case "ctrl+s":
		return f, f.onSubmit()
	case "ctrl+e":
		f.fill(profile.Example())
		return f, nil
	case "ctrl+r":
		for i := range f.inputs {
			f.inputs[i].Clear()
		}
		f.message = ""
		f.invalid = nil
		return f, nil
	case "enter":
		if !f.onSubmitRow() {
			f.move(1)
			return f, nil
		}
	}

	if f.onSubmitRow() {
		var cmd tea.Cmd
		f.submit, cmd = f.submit.Update(msg)
		return f, cmd
	}

	in := &f.inputs[f.cursor]
	*in = in.Update(msg)
	if f.invalid[in.Field.Column] {
		delete(f.invalid, in.Field.Column)
	}
	return f, nil
}

func (f *FormScreen) move(delta int) {
	f.cursor = min(max(f.cursor+delta, 0), len(f.inputs))
	f.submit.Focused = f.onSubmitRow()
}

// onSubmit builds the profile. Incomplete or invalid input keeps the form
// open with a message; a valid profile opens the result screen.
func (f *FormScreen) onSubmit() tea.Cmd {
	p, err := f.build()
	if err != nil {
		f.invalid = map[string]bool{}
		var invalid *profile.InvalidInputError
		if !errors.As(err, &invalid) {
			f.message = err.Error()
			return nil
		}
		for _, fe := range invalid.Fields {
			f.invalid[fe.Column] = true
		}
		if invalid.Missing() {
			f.message = MissingFieldsMessage
		} else {
			f.message = invalid.Error()
		}
		return nil
	}

	f.message = ""
	f.invalid = nil
	next := result.New(f.opts, p)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

// build validates the entered values through the same path as profile
// files and API requests.
func (f *FormScreen) build() (profile.Profile, error) {
	values := make(map[string]any, len(f.inputs))
	for _, in := range f.inputs {
		if v, ok := in.Value(); ok {
			values[in.Field.Column] = v
		}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("encode form: %w", err)
	}
	return profile.Parse(data)
}

func (f *FormScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var lines []string
	cursorLine := 0
	group := ""
	for i, in := range f.inputs {
		if in.Field.Group != group {
			group = in.Field.Group
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, theme.Heading.Render(group))
		}
		if i == f.cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, f.renderRow(i))
	}
	lines = append(lines, "")
	if f.onSubmitRow() {
		cursorLine = len(lines)
	}
	lines = append(lines, f.submit.View())

	// Footer area below the list: guide for the focused field and messages.
	var below []string
	if !f.onSubmitRow() {
		fld := f.inputs[f.cursor].Field
		below = append(below, lipgloss.NewStyle().Width(cw).Render(
			theme.Hint.Render(fld.Label+": "+fld.Guide)))
	}
	if f.message != "" {
		below = append(below, lipgloss.NewStyle().Width(cw).Render(theme.Failure.Render(f.message)))
	}
	belowText := strings.Join(below, "\n")

	listHeight := max(height-lipgloss.Height(belowText)-3, 3)
	start, end := layout.Window(len(lines), cursorLine, listHeight)

	body := strings.Join(lines[start:end], "\n")
	if belowText != "" {
		body += "\n\n" + belowText
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(body))
}

func (f *FormScreen) renderRow(i int) string {
	in := f.inputs[i]
	focused := i == f.cursor

	marker := "  "
	labelStyle := theme.Unselected
	if focused {
		marker = theme.Selected.Render("▸ ")
		labelStyle = theme.Selected
	}
	if f.invalid[in.Field.Column] {
		labelStyle = theme.Failure
	}

	label := labelStyle.Width(labelWidth).Render(in.Field.Label)
	return marker + label + in.View(focused)
}

func (f *FormScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Field"}}
	if !f.onSubmitRow() {
		switch f.inputs[f.cursor].Field.Kind {
		case profile.KindNumber:
			hints = append(hints, layout.KeyHint{Key: "0-9", Description: "Type"})
		default:
			hints = append(hints, layout.KeyHint{Key: "←→", Description: "Change"})
		}
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Predict"},
		layout.KeyHint{Key: "Ctrl+E", Description: "Example"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}
