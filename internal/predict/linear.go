package predict

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-json"

	"github.com/abhisek/gradepath/internal/profile"
)

//go:embed default_model.json
var defaultModel []byte

// LinearModel is a regression artifact: an intercept, one weight per
// numeric column and one weight per categorical level. Levels without a
// weight are the reference level and contribute nothing.
type LinearModel struct {
	ModelName   string                        `json:"name"`
	Target      string                        `json:"target,omitempty"`
	Intercept   float64                       `json:"intercept"`
	Numeric     map[string]float64            `json:"numeric"`
	Categorical map[string]map[string]float64 `json:"categorical"`
}

// DefaultModel returns the embedded baseline artifact.
func DefaultModel() (*LinearModel, error) {
	return ParseModel(defaultModel)
}

// LoadModel reads an artifact from path.
func LoadModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	return ParseModel(data)
}

// ParseModel decodes and checks an artifact. Columns and levels must exist
// in the profile schema.
func ParseModel(data []byte) (*LinearModel, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var m LinearModel
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: decode artifact: %w", ErrModelUnavailable, err)
	}
	if err := m.check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	return &m, nil
}

func (m *LinearModel) check() error {
	if len(m.Numeric) == 0 && len(m.Categorical) == 0 {
		return fmt.Errorf("artifact has no weights")
	}
	for col := range m.Numeric {
		f, ok := profile.Lookup(col)
		if !ok {
			return fmt.Errorf("unknown column %q", col)
		}
		if f.Kind == profile.KindChoice {
			return fmt.Errorf("column %q is categorical, not numeric", col)
		}
	}
	for col, levels := range m.Categorical {
		f, ok := profile.Lookup(col)
		if !ok {
			return fmt.Errorf("unknown column %q", col)
		}
		if f.Kind != profile.KindChoice {
			return fmt.Errorf("column %q is numeric, not categorical", col)
		}
		for level := range levels {
			if !slices.Contains(f.Options, level) {
				return fmt.Errorf("unknown level %q for column %q", level, col)
			}
		}
	}
	return nil
}

// Predict returns the linear score. The result is not clamped to 0–20.
func (m *LinearModel) Predict(_ context.Context, p profile.Profile) (float64, error) {
	// Column order keeps float summation deterministic.
	row := p.Row()
	score := m.Intercept
	for i, col := range profile.Columns() {
		switch v := row[i].(type) {
		case int:
			score += m.Numeric[col] * float64(v)
		case string:
			score += m.Categorical[col][v]
		}
	}
	return score, nil
}

func (m *LinearModel) Name() string {
	if m.ModelName == "" {
		return KindLinear
	}
	return KindLinear + ":" + m.ModelName
}
