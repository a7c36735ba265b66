// Package advisor turns a student profile and a predicted grade into an
// ordered list of recommendations.
//
// Recommendations come from a fixed, ordered table of rules. Every rule is
// evaluated independently and each match contributes exactly one entry, in
// table order. When nothing actionable matched (no entries, or only the
// positive reinforcement entry), a general "Continuous Improvement" entry is
// appended so the list is never empty.
//
// All functions here are pure and safe for concurrent use.
package advisor

import (
	"github.com/abhisek/gradepath/internal/grade"
	"github.com/abhisek/gradepath/internal/profile"
)

// Entry is one recommendation. Category is plain text; Icon is decoration.
type Entry struct {
	Category string `json:"category"`
	Text     string `json:"text"`
	Icon     string `json:"icon,omitempty"`
}

// Title returns the icon-prefixed category for display.
func (e Entry) Title() string {
	if e.Icon == "" {
		return e.Category
	}
	return e.Icon + " " + e.Category
}

// Input is what a rule sees.
type Input struct {
	Profile profile.Profile
	Grade   float64
	Tier    grade.Tier
}

// Rule is a single advisory condition and its message.
type Rule struct {
	ID       string
	Category string
	Icon     string
	When     func(Input) bool
	Text     func(Input) string
}

// Rules returns the default rule table in evaluation order. The returned
// slice is a copy and may be modified by the caller.
func Rules() []Rule {
	out := make([]Rule, len(ruleTable))
	copy(out, ruleTable)
	return out
}

// Evaluate runs rules against p and g and returns one entry per matching
// rule, in rule order. It does not apply the fallback.
func Evaluate(rules []Rule, p profile.Profile, g float64) []Entry {
	in := Input{Profile: p, Grade: g, Tier: grade.Classify(g)}

	var entries []Entry
	for _, r := range rules {
		if !r.When(in) {
			continue
		}
		entries = append(entries, Entry{
			Category: r.Category,
			Text:     r.Text(in),
			Icon:     r.Icon,
		})
	}
	return entries
}

// Recommend evaluates the default rules and applies the fallback. The
// result always has at least one entry.
func Recommend(p profile.Profile, g float64) []Entry {
	return withFallback(Evaluate(ruleTable, p, g))
}

func withFallback(entries []Entry) []Entry {
	if len(entries) == 0 || (len(entries) == 1 && entries[0].Category == CategoryPositive) {
		return append(entries, improvement)
	}
	return entries
}

// Assessment is the classified grade together with its recommendations.
type Assessment struct {
	Grade           float64    `json:"predicted_grade"`
	Tier            grade.Tier `json:"tier"`
	Recommendations []Entry    `json:"recommendations"`
}

// Assess classifies g and builds the recommendations for p.
func Assess(p profile.Profile, g float64) Assessment {
	return Assessment{
		Grade:           g,
		Tier:            grade.Classify(g),
		Recommendations: Recommend(p, g),
	}
}
