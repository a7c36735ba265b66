package result

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gradepath/internal/advisor"
	"github.com/abhisek/gradepath/internal/grade"
	"github.com/abhisek/gradepath/internal/mailer"
	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/report"
	"github.com/abhisek/gradepath/internal/router"
)

type stubPredictor struct {
	grade float64
	err   error
}

func (s stubPredictor) Predict(context.Context, profile.Profile) (float64, error) {
	return s.grade, s.err
}
func (s stubPredictor) Name() string { return "stub" }

type fakeMailer struct {
	enabled bool
	sent    []mailer.Message
	err     error
}

func (f *fakeMailer) Enabled() bool { return f.enabled }
func (f *fakeMailer) Send(_ context.Context, m mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

func press(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func newReady(t *testing.T, g float64, m mailer.Sender) *ResultScreen {
	t.Helper()
	r := New(Options{
		Predictor: stubPredictor{grade: g},
		Mailer:    m,
		ReportDir: t.TempDir(),
		Now:       func() time.Time { return fixedNow },
	}, profile.Example())

	cmd := r.Init()
	if cmd == nil {
		t.Fatal("Init should start the prediction")
	}
	r.Update(cmd())
	if r.state != stateReady {
		t.Fatalf("expected ready state, got %v (err %v)", r.state, r.err)
	}
	return r
}

func TestPredictionShowsGradeAndTier(t *testing.T) {
	r := newReady(t, 15.04, nil)

	if r.report.Tier != grade.Good {
		t.Errorf("expected Good tier, got %v", r.report.Tier)
	}
	view := r.View(100, 40)
	if !strings.Contains(view, "15.0/20") {
		t.Error("view should show the grade as x.x/20")
	}
	if !strings.Contains(view, "Good Performance") {
		t.Error("view should show the tier badge")
	}
	if !r.report.GeneratedAt.Equal(fixedNow) {
		t.Errorf("report time should come from Options.Now, got %v", r.report.GeneratedAt)
	}
}

func TestTipsToggle(t *testing.T) {
	r := newReady(t, 15, nil)
	first := r.report.Recommendations[0]

	if strings.Contains(r.View(100, 60), first.Category) {
		t.Error("tips should be hidden until toggled")
	}
	if got := r.KeyHints()[0].Description; got != "View Tips" {
		t.Errorf("expected View Tips hint, got %q", got)
	}

	r.Update(press('t'))
	if !r.showTips {
		t.Fatal("t should show tips")
	}
	if !strings.Contains(r.View(100, 60), first.Category) {
		t.Error("visible tips should list the recommendations")
	}
	if got := r.KeyHints()[0].Description; got != "Hide Tips" {
		t.Errorf("expected Hide Tips hint, got %q", got)
	}

	r.Update(press('t'))
	if r.showTips {
		t.Error("second t should hide tips")
	}
}

func TestQuietProfileGetsPositiveAndFallback(t *testing.T) {
	r := newReady(t, 15, nil)
	recs := r.report.Recommendations
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].Category != advisor.CategoryPositive || recs[1].Category != advisor.CategoryImprovement {
		t.Errorf("unexpected categories %q, %q", recs[0].Category, recs[1].Category)
	}
}

func TestSaveReport(t *testing.T) {
	r := newReady(t, 12.5, nil)

	r.Update(press('s'))
	if r.savedPath == "" {
		t.Fatal("s should save the report")
	}
	if filepath.Base(r.savedPath) != "student_prediction_20250314_0926.txt" {
		t.Errorf("unexpected filename %s", filepath.Base(r.savedPath))
	}
	data, err := os.ReadFile(r.savedPath)
	if err != nil {
		t.Fatalf("read saved report: %v", err)
	}
	if !strings.HasPrefix(string(data), report.Title) {
		t.Error("saved file should be the text report")
	}
	if !strings.Contains(r.View(100, 60), "Report saved to") {
		t.Error("view should confirm the save")
	}
}

func TestMailtoToggle(t *testing.T) {
	r := newReady(t, 12.5, nil)
	r.Update(press('m'))
	if !r.showMailto {
		t.Fatal("m should show the share link")
	}
	if !strings.Contains(r.View(200, 200), "mailto:?subject=") {
		t.Error("view should contain the mailto link")
	}
}

func TestEmailDisabled(t *testing.T) {
	r := newReady(t, 12.5, &fakeMailer{enabled: false})
	r.Update(press('e'))
	if r.emailing {
		t.Error("email should not open when the mailer is disabled")
	}
	if !r.noticeBad {
		t.Error("expected an error notice")
	}
	for _, h := range r.KeyHints() {
		if h.Key == "e" {
			t.Error("email hint should be hidden when disabled")
		}
	}
}

func TestEmailSend(t *testing.T) {
	m := &fakeMailer{enabled: true}
	r := newReady(t, 12.5, m)

	r.Update(press('e'))
	if !r.CapturingInput() {
		t.Fatal("e should open the recipient field")
	}
	for _, c := range "ana@example.com" {
		r.Update(tea.KeyPressMsg{Code: c, Text: string(c)})
	}

	_, cmd := r.Update(press(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("enter should send")
	}
	r.Update(cmd())

	if len(m.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(m.sent))
	}
	if m.sent[0].To != "ana@example.com" || m.sent[0].Subject != report.Title {
		t.Errorf("unexpected message %+v", m.sent[0])
	}
	if r.CapturingInput() {
		t.Error("field should close after sending")
	}
	if r.noticeBad {
		t.Errorf("unexpected failure notice %q", r.notice)
	}
}

func TestEmailInvalidRecipientKeepsField(t *testing.T) {
	m := &fakeMailer{enabled: true, err: mailer.ErrInvalidRecipient}
	r := newReady(t, 12.5, m)

	r.Update(press('e'))
	_, cmd := r.Update(press(tea.KeyEnter))
	r.Update(cmd())

	if !r.CapturingInput() {
		t.Error("field should stay open for a bad address")
	}
	if !r.noticeBad {
		t.Error("expected an error notice")
	}
}

func TestEmailEscCancels(t *testing.T) {
	r := newReady(t, 12.5, &fakeMailer{enabled: true})
	r.Update(press('e'))
	r.Update(press(tea.KeyEscape))
	if r.CapturingInput() {
		t.Error("esc should close the field")
	}
}

func TestPredictionFailure(t *testing.T) {
	r := New(Options{Predictor: stubPredictor{err: errors.New("model file missing")}}, profile.Example())
	r.Update(r.Init()())

	if r.state != stateFailed {
		t.Fatalf("expected failed state, got %v", r.state)
	}
	if !strings.Contains(r.View(100, 30), "❌ Prediction failed: model file missing") {
		t.Error("view should show the failure message")
	}

	r.Update(press('s'))
	if r.savedPath != "" {
		t.Error("nothing to save after a failure")
	}
}

func TestNewPredictionGoesHome(t *testing.T) {
	r := newReady(t, 12.5, nil)
	_, cmd := r.Update(press('n'))
	if cmd == nil {
		t.Fatal("n should navigate home")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Errorf("expected PopToRootMsg, got %T", cmd())
	}
}
