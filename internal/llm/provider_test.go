package llm

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/goccy/go-json"
)

func estimateSchema() *Schema {
	return &Schema{
		Name:        "test-grade-estimate",
		Description: "Final grade estimate",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"final_grade": map[string]any{"type": "number", "minimum": 0, "maximum": 20},
				"rationale":   map[string]any{"type": "string"},
				"confidence":  map[string]any{"type": "string", "enum": []any{"low", "medium", "high"}},
			},
			"required":             []any{"final_grade", "rationale"},
			"additionalProperties": false,
		},
	}
}

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"final_grade":12.5,"rationale":"steady"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"final_grade":7,"rationale":"absent"}`)},
	)

	first, err := mock.Generate(context.Background(), UserPrompt("sys", "one"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"final_grade":12.5,"rationale":"steady"}` {
		t.Fatalf("unexpected content: %s", first.Content)
	}
	if first.Usage.TotalTokens != 15 || first.StopReason != StopEnd || first.Model != ProviderMock {
		t.Fatalf("unexpected response metadata: %+v", first)
	}

	second, err := mock.Generate(context.Background(), UserPrompt("sys", "two"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"final_grade":7,"rationale":"absent"}` {
		t.Fatalf("unexpected content: %s", second.Content)
	}

	calls := mock.Calls()
	if len(calls) != 2 || calls[1].Messages[0].Content != "two" || calls[0].System != "sys" {
		t.Fatalf("calls not recorded: %+v", calls)
	}
}

func TestMockProvider_Exhausted(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}

	mock.Enqueue(MockResponse{Content: json.RawMessage(`{}`)})
	if _, err := mock.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error after Enqueue: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"final_grade":30,"rationale":"x"}`)})
	req := UserPrompt("", "estimate")
	req.Schema = estimateSchema()

	_, err := mock.Generate(context.Background(), req)
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	if got := PurposeFrom(ctx); got != PurposeUnknown {
		t.Fatalf("got %q", got)
	}
	ctx = WithPurpose(ctx, PurposeGradeEstimate)
	if got := PurposeFrom(ctx); got != "grade-estimate" {
		t.Fatalf("got %q", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	withKey := DefaultConfig()
	withKey.Provider = ProviderGemini
	withKey.Gemini.APIKey = "g-test"

	noRetry := withKey
	noRetry.Retry.MaxAttempts = 0

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"unset", Config{}, true},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"gemini with key", withKey, false},
		{"zero attempts", noRetry, true},
		{"mock", Config{Provider: ProviderMock}, false},
		{"unknown", Config{Provider: "watson"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := (Config{}).Validate(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestConfig_Discover(t *testing.T) {
	for _, d := range discoveryOrder {
		t.Setenv(d.env, "")
	}

	if _, ok := DefaultConfig().Discover(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	cfg, ok := DefaultConfig().Discover()
	if !ok || cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("unexpected discovery: ok=%v cfg=%+v", ok, cfg)
	}

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	cfg, _ = DefaultConfig().Discover()
	if cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "a-key" {
		t.Fatalf("anthropic should win, got %+v", cfg)
	}

	explicit := DefaultConfig()
	explicit.Provider = ProviderMock
	cfg, ok = explicit.Discover()
	if !ok || cfg.Provider != ProviderMock {
		t.Fatalf("explicit provider must be kept, got %+v", cfg)
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, Config{Provider: ProviderMock}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := p.(*MockProvider); !ok {
		t.Fatalf("expected bare mock, got %T", p)
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or"
	p, err = NewProvider(ctx, cfg, &memRecorder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tp, ok := p.(*TimeoutProvider)
	if !ok {
		t.Fatalf("expected timeout wrapper, got %T", p)
	}
	if tp.timeout != cfg.Timeout {
		t.Fatalf("timeout = %s, want %s", tp.timeout, cfg.Timeout)
	}
	if _, ok := tp.inner.(*RetryProvider); !ok {
		t.Fatalf("expected retry inside timeout, got %T", tp.inner)
	}
	if p.ModelID() != "google/gemini-2.0-flash-001" {
		t.Fatalf("unexpected model %q", p.ModelID())
	}

	if _, err := NewProvider(ctx, Config{Provider: ProviderOpenAI}, nil); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestPricing(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Fatalf("cost = %v", got)
	}
	if LookupCost("google/gemini-2.5-flash") == nil {
		t.Fatal("vendor-prefixed ids should match")
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("unknown model should have no pricing")
	}
	if Cost("no-such-model", 100, 100) != 0 {
		t.Fatal("unknown model should cost zero")
	}
}
