package predict

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/abhisek/gradepath/internal/llm"
	"github.com/abhisek/gradepath/internal/profile"
)

// LLMConfig holds generation settings for the LLM predictor.
type LLMConfig struct {
	MaxTokens   int
	Temperature float64
}

// LLMPredictor asks a language model to estimate the final grade.
type LLMPredictor struct {
	provider llm.Provider
	cfg      LLMConfig
}

func NewLLMPredictor(provider llm.Provider, cfg LLMConfig) *LLMPredictor {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 256
	}
	return &LLMPredictor{provider: provider, cfg: cfg}
}

// EstimateSchema constrains the model output.
var EstimateSchema = &llm.Schema{
	Name:        llm.PurposeGradeEstimate,
	Description: "Estimated final grade (G3) for a secondary school student",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"final_grade": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     20,
				"description": "Predicted final grade G3 on the Portuguese 0-20 scale",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "One sentence naming the factors that drove the estimate",
			},
		},
		"required":             []any{"final_grade", "rationale"},
		"additionalProperties": false,
	},
}

type estimateOutput struct {
	FinalGrade float64 `json:"final_grade"`
	Rationale  string  `json:"rationale"`
}

func (l *LLMPredictor) Predict(ctx context.Context, p profile.Profile) (float64, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeGradeEstimate)

	userMsg, err := buildEstimateMessage(p)
	if err != nil {
		return 0, fmt.Errorf("build estimate prompt: %w", err)
	}

	req := llm.UserPrompt(estimateSystemPrompt, userMsg)
	req.Schema = EstimateSchema
	req.MaxTokens = l.cfg.MaxTokens
	req.Temperature = l.cfg.Temperature

	resp, err := l.provider.Generate(ctx, req)
	if err != nil {
		return 0, err
	}

	var out estimateOutput
	if err := llm.Decode(resp, &out); err != nil {
		return 0, err
	}
	return out.FinalGrade, nil
}

func (l *LLMPredictor) Name() string {
	return KindLLM + ":" + l.provider.ModelID()
}

const estimateSystemPrompt = `You estimate the final-period grade (G3) of Portuguese secondary school students on the 0-20 scale.

Instructions:
- Base the estimate on the student's record below. First and second period grades (G1, G2) are the strongest signal.
- Return a single number between 0 and 20; one decimal place is enough.
- Keep the rationale to one sentence.`

type promptField struct {
	Column string
	Label  string
	Value  any
}

var estimateUserTemplate = template.Must(template.New("estimate").Parse(`Student record:
{{range .}}- {{.Column}} ({{.Label}}): {{.Value}}
{{end}}`))

func buildEstimateMessage(p profile.Profile) (string, error) {
	fields := profile.Fields()
	row := p.Row()
	rows := make([]promptField, len(fields))
	for i, f := range fields {
		rows[i] = promptField{Column: f.Column, Label: f.Label, Value: row[i]}
	}

	var buf bytes.Buffer
	if err := estimateUserTemplate.Execute(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}
