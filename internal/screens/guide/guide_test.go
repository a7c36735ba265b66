package guide

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gradepath/internal/profile"
)

func TestLinesCoverEveryField(t *testing.T) {
	text := strings.Join(Lines(200), "\n")
	for _, f := range profile.Fields() {
		if !strings.Contains(text, "("+f.Column+")") {
			t.Errorf("guide is missing %s", f.Column)
		}
	}
	for _, g := range profile.Groups() {
		if !strings.Contains(text, g) {
			t.Errorf("guide is missing group %q", g)
		}
	}
}

func TestScrollClamps(t *testing.T) {
	g := New()
	g.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if g.scroll != 0 {
		t.Errorf("scroll should not go negative, got %d", g.scroll)
	}

	for range 500 {
		g.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	g.View(100, 20)
	limit := len(Lines(72)) - 18
	if g.scroll != limit {
		t.Errorf("expected scroll clamped to %d, got %d", limit, g.scroll)
	}

	g.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	if g.scroll != 0 {
		t.Errorf("home should reset scroll, got %d", g.scroll)
	}
}
