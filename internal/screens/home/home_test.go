package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gradepath/internal/mailer"
	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/router"
	"github.com/abhisek/gradepath/internal/screens/form"
	"github.com/abhisek/gradepath/internal/screens/guide"
	"github.com/abhisek/gradepath/internal/screens/result"
)

type stubPredictor struct{}

func (stubPredictor) Predict(context.Context, profile.Profile) (float64, error) { return 10, nil }
func (stubPredictor) Name() string                                              { return "linear:test" }

type enabledMailer struct{}

func (enabledMailer) Enabled() bool                              { return true }
func (enabledMailer) Send(context.Context, mailer.Message) error { return nil }

func enter(h *HomeScreen) tea.Msg {
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestNewPredictionOpensForm(t *testing.T) {
	h := New(result.Options{Predictor: stubPredictor{}})
	msg, ok := enter(h).(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*form.FormScreen); !ok {
		t.Errorf("expected form screen, got %T", msg.Screen)
	}
}

func TestFieldGuide(t *testing.T) {
	h := New(result.Options{Predictor: stubPredictor{}})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	msg, ok := enter(h).(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*guide.GuideScreen); !ok {
		t.Errorf("expected guide screen, got %T", msg.Screen)
	}
}

func TestQuit(t *testing.T) {
	h := New(result.Options{Predictor: stubPredictor{}})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if _, ok := enter(h).(tea.QuitMsg); !ok {
		t.Error("QUIT should quit")
	}
}

func TestStatusLine(t *testing.T) {
	view := New(result.Options{Predictor: stubPredictor{}}).View(100, 30)
	if !strings.Contains(view, "linear:test") {
		t.Error("view should name the predictor")
	}
	if strings.Contains(view, "email on") {
		t.Error("email should be off without a mailer")
	}

	view = New(result.Options{Predictor: stubPredictor{}, Mailer: enabledMailer{}}).View(100, 30)
	if !strings.Contains(view, "email on") {
		t.Error("view should show email on")
	}
}
