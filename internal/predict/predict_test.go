package predict

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gradepath/internal/llm"
	"github.com/abhisek/gradepath/internal/profile"
	"github.com/abhisek/gradepath/internal/store"
)

func TestDefaultModel_PredictsExample(t *testing.T) {
	m, err := DefaultModel()
	require.NoError(t, err)

	g, err := m.Predict(context.Background(), profile.Example())
	require.NoError(t, err)
	// -0.6 - 0.2*17 + 0.36*4 + 0.04*4 + 0.15*13 + 0.98*14
	assert.InDelta(t, 13.27, g, 1e-9)
	assert.Equal(t, "linear:baseline-linear", m.Name())
}

func TestLinearModel_CategoricalLevels(t *testing.T) {
	m, err := DefaultModel()
	require.NoError(t, err)

	in := profile.Example().Input()
	school := profile.SchoolMS
	romantic := profile.Yes
	in.School = &school
	in.RomanticRelationship = &romantic
	p, err := profile.New(in)
	require.NoError(t, err)

	base, _ := m.Predict(context.Background(), profile.Example())
	g, _ := m.Predict(context.Background(), p)
	assert.InDelta(t, base-0.4-0.35, g, 1e-9)
}

func TestLinearModel_NotClamped(t *testing.T) {
	m, err := ParseModel([]byte(`{"name":"steep","intercept":30,"numeric":{"G2":1}}`))
	require.NoError(t, err)

	g, err := m.Predict(context.Background(), profile.Example())
	require.NoError(t, err)
	assert.InDelta(t, 44.0, g, 1e-9)
}

func TestParseModel_Errors(t *testing.T) {
	tests := []struct {
		name     string
		artifact string
		want     string
	}{
		{"not json", `{`, "decode artifact"},
		{"unknown key", `{"name":"x","weights":{}}`, "decode artifact"},
		{"no weights", `{"name":"x","intercept":1}`, "no weights"},
		{"unknown numeric column", `{"numeric":{"G3":1}}`, `unknown column "G3"`},
		{"categorical as numeric", `{"numeric":{"sex":1}}`, "categorical, not numeric"},
		{"numeric as categorical", `{"categorical":{"age":{"17":1}}}`, "numeric, not categorical"},
		{"unknown level", `{"categorical":{"school":{"XX":1}}}`, `unknown level "XX"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel([]byte(tt.artifact))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrModelUnavailable)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"tiny","numeric":{"G2":1}}`), 0o644))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "linear:tiny", m.Name())

	_, err = LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLLMPredictor(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"final_grade":14.6,"rationale":"G2 of 14 with few absences"}`)})
	p := NewLLMPredictor(mock, LLMConfig{})

	g, err := p.Predict(context.Background(), profile.Example())
	require.NoError(t, err)
	assert.InDelta(t, 14.6, g, 1e-9)
	assert.Equal(t, "llm:mock", p.Name())

	calls := mock.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Equal(t, EstimateSchema, req.Schema)
	assert.Equal(t, 256, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "- G2 (Second Period Grade (G2)): 14")
	assert.Contains(t, req.Messages[0].Content, "- school (School): GP")
	assert.Equal(t, len(profile.Columns()), strings.Count(req.Messages[0].Content, "\n- "))
}

func TestLLMPredictor_SetsPurpose(t *testing.T) {
	var seen string
	p := NewLLMPredictor(purposeCapture{seen: &seen}, LLMConfig{})
	_, _ = p.Predict(context.Background(), profile.Example())
	assert.Equal(t, llm.PurposeGradeEstimate, seen)
}

type purposeCapture struct{ seen *string }

func (p purposeCapture) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	*p.seen = llm.PurposeFrom(ctx)
	return &llm.Response{Content: json.RawMessage(`{"final_grade":10,"rationale":"x"}`)}, nil
}

func (p purposeCapture) ModelID() string { return "capture" }

func TestLLMPredictor_LedgerOmitsStudentRecord(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"final_grade":12.5,"rationale":"steady"}`),
		Usage:   llm.Usage{InputTokens: 610, OutputTokens: 18},
	})
	p := NewLLMPredictor(llm.WithLogging(mock, llm.ProviderMock, st.EventRepo()), LLMConfig{})

	student := profile.Example()
	student.Absences = 37
	g, err := p.Predict(context.Background(), student)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, g, 1e-9)

	events, err := st.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Purpose: llm.PurposeGradeEstimate})
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.True(t, ev.Success)
	assert.Equal(t, 610, ev.InputTokens)
	assert.Equal(t, 18, ev.OutputTokens)
	assert.Empty(t, ev.RequestBody)
	assert.Empty(t, ev.ResponseBody)
}

func TestLLMPredictor_ErrorsSurfaceUnchanged(t *testing.T) {
	rl := &llm.ErrRateLimit{Err: errors.New("slow down")}
	p := NewLLMPredictor(llm.NewMockProvider(llm.MockResponse{Err: rl}), LLMConfig{})

	_, err := p.Predict(context.Background(), profile.Example())
	var got *llm.ErrRateLimit
	require.ErrorAs(t, err, &got)
	assert.Same(t, rl, got)
}

func TestNew(t *testing.T) {
	t.Run("linear default", func(t *testing.T) {
		p, err := New(DefaultConfig(), nil)
		require.NoError(t, err)
		assert.Equal(t, "linear:baseline-linear", p.Name())
	})

	t.Run("linear missing artifact", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ModelPath = filepath.Join(t.TempDir(), "nope.json")
		_, err := New(cfg, nil)
		assert.ErrorIs(t, err, ErrModelUnavailable)
	})

	t.Run("llm", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Kind = KindLLM
		p, err := New(cfg, llm.NewMockProvider())
		require.NoError(t, err)
		assert.Equal(t, "llm:mock", p.Name())
	})

	t.Run("llm without provider", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Kind = KindLLM
		_, err := New(cfg, nil)
		assert.ErrorIs(t, err, ErrNoProvider)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := New(Config{Kind: "forest"}, nil)
		assert.ErrorContains(t, err, `unknown predictor kind "forest"`)
	})
}

func TestUnavailable(t *testing.T) {
	_, loadErr := LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, loadErr)

	var p Predictor = Unavailable{Err: loadErr}
	_, err := p.Predict(context.Background(), profile.Example())
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, "unavailable", p.Name())
}
