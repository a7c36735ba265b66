package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/router"
	"github.com/abhisek/gradepath/internal/screen"
)

type stubPredictor struct{}

func (stubPredictor) Predict(context.Context, profile.Profile) (float64, error) { return 12, nil }
func (stubPredictor) Name() string                                              { return "linear:test" }

type stubScreen struct {
	title     string
	capturing bool
	got       []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return "body:" + s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) CapturingInput() bool { return s.capturing }

func newTestModel(screens ...*stubScreen) AppModel {
	m := newAppModel(Options{Predictor: stubPredictor{}})
	m.router = router.New(screens[0])
	for _, s := range screens[1:] {
		m.router.Push(s)
	}
	return m
}

func run(m AppModel, msg tea.Msg) (AppModel, tea.Msg) {
	next, cmd := m.Update(msg)
	if cmd == nil {
		return next.(AppModel), nil
	}
	return next.(AppModel), cmd()
}

func TestEscPops(t *testing.T) {
	m := newTestModel(&stubScreen{title: "home"}, &stubScreen{title: "form"})
	_, msg := run(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := msg.(router.PopScreenMsg); !ok {
		t.Fatalf("expected PopScreenMsg, got %T", msg)
	}
}

func TestEscAtRootIsNoop(t *testing.T) {
	home := &stubScreen{title: "home"}
	m := newTestModel(home)
	_, msg := run(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if msg != nil {
		t.Errorf("expected no command, got %T", msg)
	}
	if len(home.got) != 0 {
		t.Error("esc should not reach the root screen")
	}
}

func TestEscGoesToCapturingScreen(t *testing.T) {
	input := &stubScreen{title: "result", capturing: true}
	m := newTestModel(&stubScreen{title: "home"}, input)
	_, msg := run(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if msg != nil {
		t.Errorf("expected no navigation, got %T", msg)
	}
	if len(input.got) != 1 {
		t.Errorf("esc should be forwarded to the screen, got %d messages", len(input.got))
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(&stubScreen{title: "home", capturing: true})
	_, msg := run(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", msg)
	}
}

func TestViewFrame(t *testing.T) {
	m := newTestModel(&stubScreen{title: "Field Guide"})
	m, _ = run(m, tea.WindowSizeMsg{Width: 100, Height: 30})

	content := m.render()
	for _, want := range []string{"GradePath", "Field Guide", "linear:test", "body:Field Guide", "Quit"} {
		if !strings.Contains(content, want) {
			t.Errorf("frame should contain %q", want)
		}
	}
}

func TestViewTooSmall(t *testing.T) {
	m := newTestModel(&stubScreen{title: "home"})
	m, _ = run(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(m.render(), "Terminal too small") {
		t.Error("expected the minimum size message")
	}
}

func TestStartsOnSplash(t *testing.T) {
	m := newAppModel(Options{Predictor: stubPredictor{}})
	if m.router.Active().Title() != "" {
		t.Errorf("expected the untitled splash, got %q", m.router.Active().Title())
	}
	if m.Init() == nil {
		t.Error("splash should start its animation")
	}
}

func TestRunRequiresPredictor(t *testing.T) {
	if err := Run(Options{}); err == nil {
		t.Error("expected an error without a predictor")
	}
}
