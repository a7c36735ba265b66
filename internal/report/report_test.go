package report

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gradepath/internal/advisor"
	"github.com/abhisek/gradepath/internal/grade"
	"github.com/abhisek/gradepath/internal/profile"
)

var at = time.Date(2026, 5, 17, 9, 42, 13, 0, time.UTC)

func sample(g float64) Report {
	p := profile.Example()
	return New(p, advisor.Assess(p, g), at)
}

func TestNew(t *testing.T) {
	r := sample(13.42)
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, grade.NeedsImprovement, r.Tier)
	assert.Equal(t, "Needs Improvement", r.PerformanceLevel)
	assert.Equal(t, at, r.GeneratedAt)
	assert.NotEmpty(t, r.Recommendations)

	assert.NotEqual(t, r.ID, sample(13.42).ID, "each report gets its own id")
}

func TestText(t *testing.T) {
	text := sample(13.42).Text()

	assert.True(t, strings.HasPrefix(text, Title+"\n=====================================\n\n"))
	assert.Contains(t, text, "PREDICTION RESULT:\nFinal Grade (G3): 13.42/20\nPerformance Level: Needs Improvement\n")
	assert.Contains(t, text, "RECOMMENDATIONS:\n- Continuous Improvement: ")
	assert.Contains(t, text, "STUDENT PROFILE:\nschool: GP\nsex: F\nage: 17\n")
	assert.Contains(t, text, "absences: 4\nG1: 13\nG2: 14\n")
	assert.Contains(t, text, "\nGenerated on: 2026-05-17 09:42:13\n")
	assert.True(t, strings.HasSuffix(text, "Report generated by GradePath - Student Achievement Predictor"))
}

func TestText_ProfileInColumnOrder(t *testing.T) {
	text := sample(15).Text()
	last := -1
	for _, col := range profile.Columns() {
		i := strings.Index(text, "\n"+col+": ")
		require.GreaterOrEqual(t, i, 0, "column %s missing", col)
		assert.Greater(t, i, last, "column %s out of order", col)
		last = i
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "student_prediction_20260517_0942.txt", sample(12).Filename())
}

func TestMailtoLink(t *testing.T) {
	r := sample(16.5)
	link := r.MailtoLink()

	require.True(t, strings.HasPrefix(link, "mailto:?subject=Student%20Achievement%20Prediction%20Report&body="))
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, " ")

	u, err := url.Parse(link)
	require.NoError(t, err)
	q, err := url.ParseQuery(u.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, Title, q.Get("subject"))
	assert.Equal(t, r.Text(), q.Get("body"))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := sample(9.5)

	path, err := r.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, r.Filename()), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Text(), string(data))
}

func TestJSON(t *testing.T) {
	r := sample(14.25)
	data, err := r.JSON()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, r.ID.String(), got["id"])
	assert.Equal(t, 14.25, got["predicted_grade"])
	assert.Equal(t, "good", got["tier"])
	assert.Equal(t, "Good Performance", got["performance_level"])

	prof, ok := got["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "GP", prof["school"])
	assert.Len(t, prof, len(profile.Columns()))

	recs, ok := got["recommendations"].([]any)
	require.True(t, ok)
	first := recs[0].(map[string]any)
	assert.Equal(t, advisor.CategoryPositive, first["category"])
}
