// Package result shows a prediction: the grade, its tier, the
// recommendations and the report actions (save, share, email).
package result

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradepath/internal/advisor"
	"github.com/abhisek/gradepath/internal/logging"
	"github.com/abhisek/gradepath/internal/mailer"
	"github.com/abhisek/gradepath/internal/metrics"
	"github.com/abhisek/gradepath/internal/predict"
	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/report"
	"github.com/abhisek/gradepath/internal/router"
	"github.com/abhisek/gradepath/internal/screen"
	"github.com/abhisek/gradepath/internal/ui/components"
	"github.com/abhisek/gradepath/internal/ui/layout"
	"github.com/abhisek/gradepath/internal/ui/theme"
)

// Options are the collaborators a prediction needs.
type Options struct {
	Predictor predict.Predictor
	// Mailer may be nil; email is then unavailable.
	Mailer    mailer.Sender
	ReportDir string
	Now       func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) emailEnabled() bool {
	return o.Mailer != nil && o.Mailer.Enabled()
}

const sendTimeout = 30 * time.Second

type state int

const (
	statePredicting state = iota
	stateReady
	stateFailed
)

type predictedMsg struct {
	grade   float64
	elapsed time.Duration
	err     error
}

type emailSentMsg struct {
	to  string
	err error
}

// ResultScreen runs one prediction for a profile and presents it. Every
// piece of presentation state lives here.
type ResultScreen struct {
	opts    Options
	profile profile.Profile

	state  state
	err    error
	report report.Report

	showTips   bool
	showMailto bool
	savedPath  string

	emailing bool
	sending  bool
	email    components.TextInput

	notice    string
	noticeBad bool
	scroll    int
}

var _ screen.Screen = (*ResultScreen)(nil)

// New creates a result screen; the prediction starts in Init.
func New(opts Options, p profile.Profile) *ResultScreen {
	return &ResultScreen{opts: opts, profile: p}
}

func (r *ResultScreen) Title() string {
	return "Prediction Result"
}

func (r *ResultScreen) Init() tea.Cmd {
	pred, p := r.opts.Predictor, r.profile
	return func() tea.Msg {
		start := time.Now()
		g, err := pred.Predict(context.Background(), p)
		return predictedMsg{grade: g, elapsed: time.Since(start), err: err}
	}
}

// CapturingInput is true while the recipient field is open.
func (r *ResultScreen) CapturingInput() bool {
	return r.emailing
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case predictedMsg:
		r.handlePrediction(msg)
		return r, nil

	case emailSentMsg:
		r.sending = false
		if msg.err != nil {
			r.setNotice("Could not send email: "+msg.err.Error(), true)
			if errors.Is(msg.err, mailer.ErrInvalidRecipient) {
				r.email.Submit(false)
				return r, nil
			}
		} else {
			r.setNotice("Report emailed to "+msg.to, false)
		}
		r.emailing = false
		return r, nil

	case tea.KeyMsg:
		if r.emailing {
			return r.updateEmail(msg)
		}
		return r, r.handleKey(msg.String())
	}

	if r.emailing {
		var cmd tea.Cmd
		r.email, cmd = r.email.Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r *ResultScreen) handlePrediction(msg predictedMsg) {
	name := r.opts.Predictor.Name()
	if msg.err != nil {
		r.state = stateFailed
		r.err = msg.err
		metrics.RecordPredictionError(name, msg.elapsed)
		logging.Error().Err(msg.err).Str("predictor", name).Msg("prediction failed")
		return
	}

	a := advisor.Assess(r.profile, msg.grade)
	metrics.RecordPrediction(name, msg.elapsed, a)
	r.report = report.New(r.profile, a, r.opts.now())
	r.state = stateReady
	logging.Info().
		Str("predictor", name).
		Float64("grade", msg.grade).
		Stringer("tier", a.Tier).
		Int("recommendations", len(a.Recommendations)).
		Msg("prediction made")
}

func (r *ResultScreen) handleKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		r.scroll = max(r.scroll-1, 0)
		return nil
	case "down", "j":
		r.scroll++
		return nil
	case "n":
		return func() tea.Msg { return router.PopToRootMsg{} }
	}

	if r.state != stateReady {
		return nil
	}

	switch key {
	case "t":
		r.showTips = !r.showTips
	case "m":
		r.showMailto = !r.showMailto
	case "s":
		path, err := r.report.Save(r.opts.ReportDir)
		if err != nil {
			r.setNotice("Could not save report: "+err.Error(), true)
			logging.Error().Err(err).Msg("save report")
			return nil
		}
		r.savedPath = path
		r.setNotice("Report saved to "+path, false)
	case "e":
		if !r.opts.emailEnabled() {
			r.setNotice("Email is not configured (set mail.from)", true)
			return nil
		}
		r.emailing = true
		r.email = components.NewTextInput("name@example.com", 254)
		r.notice = ""
		return r.email.Model.Focus()
	}
	return nil
}

func (r *ResultScreen) updateEmail(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if r.sending {
		return r, nil
	}
	switch msg.String() {
	case "esc":
		r.emailing = false
		return r, nil
	case "enter":
		r.sending = true
		r.setNotice("Sending…", false)
		return r, r.send(strings.TrimSpace(r.email.Value()))
	}
	var cmd tea.Cmd
	r.email, cmd = r.email.Update(msg)
	return r, cmd
}

func (r *ResultScreen) send(to string) tea.Cmd {
	sender := r.opts.Mailer
	m := mailer.Message{To: to, Subject: report.Title, Body: r.report.Text()}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		return emailSentMsg{to: to, err: sender.Send(ctx, m)}
	}
}

func (r *ResultScreen) setNotice(s string, bad bool) {
	r.notice = s
	r.noticeBad = bad
}

func (r *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var lines []string
	switch r.state {
	case statePredicting:
		lines = append(lines, theme.Hint.Render("Predicting the final grade…"))
	case stateFailed:
		lines = append(lines, lipgloss.NewStyle().Width(cw).Render(
			theme.Failure.Render("❌ Prediction failed: "+r.err.Error())))
		lines = append(lines, "", theme.Hint.Render("Esc to edit the profile and try again."))
	case stateReady:
		lines = r.readyLines(cw)
	}

	if r.emailing {
		lines = append(lines, "", theme.Heading.Render("Email report to:"), r.email.View())
	}
	if r.notice != "" {
		style := theme.Notice
		if r.noticeBad {
			style = theme.Failure
		}
		lines = append(lines, "", lipgloss.NewStyle().Width(cw).Render(style.Render(r.notice)))
	}

	// Each entry may span several terminal lines once wrapped.
	all := strings.Split(strings.Join(lines, "\n"), "\n")
	size := max(height-2, 1)
	r.scroll = min(r.scroll, max(len(all)-size, 0))
	start, end := r.scroll, min(r.scroll+size, len(all))

	body := strings.Join(all[start:end], "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(body))
}

func (r *ResultScreen) readyLines(cw int) []string {
	rep := r.report
	emphasis := theme.EmphasisColor(rep.Tier.Emphasis())

	gradeText := lipgloss.NewStyle().
		Foreground(emphasis).
		Bold(true).
		Render(fmt.Sprintf("%.1f/20", rep.Grade))

	lines := []string{
		theme.Heading.Render("Predicted Final Grade (G3)"),
		"",
		gradeText + "  " + theme.TierBadge(rep.Tier),
		components.NewGradeBar(rep.Grade, emphasis, cw).View(),
		"",
	}

	if r.showTips {
		lines = append(lines, theme.Heading.Render("Recommendations"), "")
		for _, e := range rep.Recommendations {
			lines = append(lines,
				lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(e.Title()),
				lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).Render(e.Text),
				"")
		}
	} else {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("%d recommendations, press t to view tips", len(rep.Recommendations))))
	}

	if r.showMailto {
		lines = append(lines, "", theme.Heading.Render("Share by email"),
			lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).Render(rep.MailtoLink()))
	}
	return lines
}

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	if r.emailing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if r.state != stateReady {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "n", Description: "Home"},
		}
	}
	tips := "View Tips"
	if r.showTips {
		tips = "Hide Tips"
	}
	hints := []layout.KeyHint{
		{Key: "t", Description: tips},
		{Key: "s", Description: "Save"},
		{Key: "m", Description: "Share"},
	}
	if r.opts.emailEnabled() {
		hints = append(hints, layout.KeyHint{Key: "e", Description: "Email"})
	}
	return append(hints,
		layout.KeyHint{Key: "↑↓", Description: "Scroll"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}
