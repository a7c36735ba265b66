// Package grade bands a predicted final grade on the 0-20 scale into one of
// four ordered performance tiers.
package grade

import "fmt"

// Tier is a performance band. The zero value is AtRisk.
type Tier int

const (
	AtRisk Tier = iota
	NeedsImprovement
	Good
	Excellent
)

// Thresholds are lower bounds, inclusive.
const (
	NeedsImprovementFrom = 10.0
	GoodFrom             = 14.0
	ExcellentFrom        = 16.0
)

// Emphasis is a display-neutral severity level. Presentation layers map it
// to colours.
type Emphasis string

const (
	Alert     Emphasis = "alert"
	Warning   Emphasis = "warning"
	Positive  Emphasis = "positive"
	Highlight Emphasis = "highlight"
)

var tierInfo = [...]struct {
	id       string
	label    string
	emphasis Emphasis
}{
	AtRisk:           {"at_risk", "At Risk", Alert},
	NeedsImprovement: {"needs_improvement", "Needs Improvement", Warning},
	Good:             {"good", "Good Performance", Positive},
	Excellent:        {"excellent", "Excellent Performance", Highlight},
}

// Classify returns the tier for g. It is total: negative grades, grades
// above 20 and NaN all map to a tier (NaN fails every comparison and lands
// in AtRisk).
func Classify(g float64) Tier {
	switch {
	case g >= ExcellentFrom:
		return Excellent
	case g >= GoodFrom:
		return Good
	case g >= NeedsImprovementFrom:
		return NeedsImprovement
	default:
		return AtRisk
	}
}

// Tiers returns every tier, worst first.
func Tiers() []Tier {
	return []Tier{AtRisk, NeedsImprovement, Good, Excellent}
}

func (t Tier) valid() bool { return t >= AtRisk && t <= Excellent }

// Label is the human-readable tier name.
func (t Tier) Label() string {
	if !t.valid() {
		return "Unknown"
	}
	return tierInfo[t].label
}

func (t Tier) Emphasis() Emphasis {
	if !t.valid() {
		return ""
	}
	return tierInfo[t].emphasis
}

// Rank orders tiers by severity, AtRisk = 0 through Excellent = 3.
func (t Tier) Rank() int { return int(t) }

// String returns the stable identifier used in JSON and metric labels.
func (t Tier) String() string {
	if !t.valid() {
		return "unknown"
	}
	return tierInfo[t].id
}

// MarshalText encodes the tier by its identifier.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the identifiers produced by String.
func (t *Tier) UnmarshalText(b []byte) error {
	for _, tier := range Tiers() {
		if tier.String() == string(b) {
			*t = tier
			return nil
		}
	}
	return &UnknownTierError{Value: string(b)}
}

// UnknownTierError is returned when decoding an unrecognised identifier.
type UnknownTierError struct {
	Value string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("unknown performance tier %q", e.Value)
}
