// Package report renders a prediction as a flat text document, a JSON
// object and a mailto share link.
package report

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/abhisek/gradepath/internal/advisor"
	"github.com/abhisek/gradepath/internal/grade"
	"github.com/abhisek/gradepath/internal/profile"
)

// Title is the report heading and the email subject.
const Title = "Student Achievement Prediction Report"

const footer = "Report generated by GradePath - Student Achievement Predictor"

// Report is one prediction with its recommendations and the profile it was
// made for.
type Report struct {
	ID               uuid.UUID       `json:"id"`
	GeneratedAt      time.Time       `json:"generated_at"`
	Grade            float64         `json:"predicted_grade"`
	Tier             grade.Tier      `json:"tier"`
	PerformanceLevel string          `json:"performance_level"`
	Recommendations  []advisor.Entry `json:"recommendations"`
	Profile          profile.Profile `json:"profile"`
}

// New builds a report for p. now is the generation time.
func New(p profile.Profile, a advisor.Assessment, now time.Time) Report {
	return Report{
		ID:               uuid.New(),
		GeneratedAt:      now,
		Grade:            a.Grade,
		Tier:             a.Tier,
		PerformanceLevel: a.Tier.Label(),
		Recommendations:  a.Recommendations,
		Profile:          p,
	}
}

// Text renders the downloadable document.
func (r Report) Text() string {
	var b strings.Builder

	b.WriteString(Title + "\n")
	b.WriteString(strings.Repeat("=", len(Title)) + "\n\n")

	b.WriteString("PREDICTION RESULT:\n")
	fmt.Fprintf(&b, "Final Grade (G3): %.2f/20\n", r.Grade)
	fmt.Fprintf(&b, "Performance Level: %s\n\n", r.PerformanceLevel)

	if len(r.Recommendations) > 0 {
		b.WriteString("RECOMMENDATIONS:\n")
		for _, e := range r.Recommendations {
			fmt.Fprintf(&b, "- %s: %s\n", e.Category, e.Text)
		}
		b.WriteString("\n")
	}

	b.WriteString("STUDENT PROFILE:\n")
	row := r.Profile.Row()
	for i, col := range profile.Columns() {
		fmt.Fprintf(&b, "%s: %v\n", col, row[i])
	}

	fmt.Fprintf(&b, "\nGenerated on: %s\n", r.GeneratedAt.Format(time.DateTime))
	b.WriteString(footer)
	return b.String()
}

// Filename is the suggested download name, timestamped to the minute.
func (r Report) Filename() string {
	return "student_prediction_" + r.GeneratedAt.Format("20060102_1504") + ".txt"
}

// MailtoLink returns a mailto URI with no recipient, the report title as
// subject and the text report as body.
func (r Report) MailtoLink() string {
	return "mailto:?subject=" + escape(Title) + "&body=" + escape(r.Text())
}

// escape percent-encodes s for a mailto query, spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Save writes the text report into dir and returns its path.
func (r Report) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, r.Filename())
	if err := os.WriteFile(path, []byte(r.Text()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// JSON returns the indented JSON form.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
