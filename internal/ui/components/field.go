package components

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/ui/theme"
)

// FieldInput edits one profile field. An empty raw value means the field
// has not been filled in yet.
//
// Choice fields cycle through their options with left/right. Scale fields
// step within [Min, Max] and also accept a single digit. Number fields
// take digits and backspace, and step with left/right.
type FieldInput struct {
	Field profile.Field
	raw   string
}

// NewFieldInput creates an empty input for f.
func NewFieldInput(f profile.Field) FieldInput {
	return FieldInput{Field: f}
}

// Set fills the input from a profile value (string or int).
func (fi *FieldInput) Set(v any) {
	switch v := v.(type) {
	case string:
		fi.raw = v
	case int:
		fi.raw = strconv.Itoa(v)
	}
}

// Clear empties the input.
func (fi *FieldInput) Clear() { fi.raw = "" }

// Filled reports whether a value has been entered.
func (fi FieldInput) Filled() bool { return fi.raw != "" }

// Value returns the entered value as the profile expects it: a string for
// choice fields, an int otherwise.
func (fi FieldInput) Value() (any, bool) {
	if fi.raw == "" {
		return nil, false
	}
	if fi.Field.Kind == profile.KindChoice {
		return fi.raw, true
	}
	n, err := strconv.Atoi(fi.raw)
	if err != nil {
		return nil, false
	}
	return n, true
}

// Update handles a key press while the field is focused.
func (fi FieldInput) Update(msg tea.Msg) FieldInput {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return fi
	}
	key := kmsg.String()

	switch key {
	case "left", "h":
		fi.step(-1)
		return fi
	case "right", "l":
		fi.step(1)
		return fi
	case "backspace":
		if fi.Field.Kind == profile.KindNumber && len(fi.raw) > 0 {
			fi.raw = fi.raw[:len(fi.raw)-1]
		} else {
			fi.raw = ""
		}
		return fi
	case "delete":
		fi.raw = ""
		return fi
	}

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		fi.digit(key)
	}
	return fi
}

func (fi *FieldInput) step(delta int) {
	f := fi.Field
	if f.Kind == profile.KindChoice {
		idx := -1
		for i, o := range f.Options {
			if o == fi.raw {
				idx = i
				break
			}
		}
		n := len(f.Options)
		switch {
		case n == 0:
			return
		case idx < 0 && delta > 0:
			idx = 0
		case idx < 0:
			idx = n - 1
		default:
			idx = (idx + delta + n) % n
		}
		fi.raw = f.Options[idx]
		return
	}

	n, err := strconv.Atoi(fi.raw)
	if err != nil {
		// Empty: start from the bound in the direction of travel.
		if delta > 0 {
			fi.raw = strconv.Itoa(f.Min)
		} else {
			fi.raw = strconv.Itoa(f.Max)
		}
		return
	}
	fi.raw = strconv.Itoa(min(max(n+delta, f.Min), f.Max))
}

func (fi *FieldInput) digit(d string) {
	f := fi.Field
	switch f.Kind {
	case profile.KindScale:
		n, _ := strconv.Atoi(d)
		if n >= f.Min && n <= f.Max {
			fi.raw = d
		}
	case profile.KindNumber:
		next := strings.TrimLeft(fi.raw+d, "0")
		if next == "" {
			next = "0"
		}
		if n, err := strconv.Atoi(next); err == nil && n <= f.Max {
			fi.raw = next
		}
	}
}

// View renders the current value. focused adds cycling arrows.
func (fi FieldInput) View(focused bool) string {
	val := fi.raw
	style := theme.Unselected
	if val == "" {
		val = "select"
		if fi.Field.Kind == profile.KindNumber {
			val = "enter a number"
		}
		style = theme.Missing
	} else if focused {
		style = theme.Selected
	}

	out := style.Render(val)
	if focused {
		arrows := lipgloss.NewStyle().Foreground(theme.TextDim)
		if fi.Field.Kind == profile.KindNumber && fi.raw != "" {
			out += arrows.Render("▏")
		}
		out = arrows.Render("◂ ") + out + arrows.Render(" ▸")
	}
	return out
}
