package grade

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		grade float64
		want  Tier
	}{
		{9.999, AtRisk},
		{10.0, NeedsImprovement},
		{13.999, NeedsImprovement},
		{14.0, Good},
		{15.999, Good},
		{16.0, Excellent},
		{0, AtRisk},
		{20, Excellent},
		{13.42, NeedsImprovement},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.grade), "grade %v", tt.grade)
	}
}

func TestClassify_Total(t *testing.T) {
	assert.Equal(t, AtRisk, Classify(-5))
	assert.Equal(t, Excellent, Classify(25))
	assert.Equal(t, AtRisk, Classify(math.Inf(-1)))
	assert.Equal(t, Excellent, Classify(math.Inf(1)))
	assert.Equal(t, AtRisk, Classify(math.NaN()))
}

func TestClassify_Monotonic(t *testing.T) {
	prev := Classify(-1)
	for g := -1.0; g <= 21; g += 0.01 {
		cur := Classify(g)
		require.GreaterOrEqual(t, cur.Rank(), prev.Rank(), "grade %v", g)
		prev = cur
	}
}

func TestTierAttributes(t *testing.T) {
	tests := []struct {
		tier     Tier
		label    string
		emphasis Emphasis
		rank     int
		id       string
	}{
		{AtRisk, "At Risk", Alert, 0, "at_risk"},
		{NeedsImprovement, "Needs Improvement", Warning, 1, "needs_improvement"},
		{Good, "Good Performance", Positive, 2, "good"},
		{Excellent, "Excellent Performance", Highlight, 3, "excellent"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, tt.tier.Label())
		assert.Equal(t, tt.emphasis, tt.tier.Emphasis())
		assert.Equal(t, tt.rank, tt.tier.Rank())
		assert.Equal(t, tt.id, tt.tier.String())
	}

	assert.Equal(t, "unknown", Tier(9).String())
	assert.Equal(t, "Unknown", Tier(-1).Label())
}

func TestTierJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Tier{"tier": Good})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"good"}`, string(data))

	var out struct {
		Tier Tier `json:"tier"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"tier":"needs_improvement"}`), &out))
	assert.Equal(t, NeedsImprovement, out.Tier)

	err = json.Unmarshal([]byte(`{"tier":"great"}`), &out)
	assert.Error(t, err)
}
