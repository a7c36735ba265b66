package llm

import (
	"context"
	"net/http"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("requires key", func(t *testing.T) {
		if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("vendor model ids pass through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "anthropic/claude-haiku-4.5"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "anthropic/claude-haiku-4.5" {
			t.Fatalf("model = %q", p.ModelID())
		}
	})
}

func TestOpenRouterProvider_UsesBaseURL(t *testing.T) {
	url, captured := chatServer(t, http.StatusOK, chatCompletion(`{"final_grade":11,"rationale":"average"}`, "stop"))
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.0-flash-001", BaseURL: url})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := UserPrompt("", "row")
	req.Schema = estimateSchema()
	if _, err := p.Generate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Path != "/v1/chat/completions" || captured.Body["model"] != "google/gemini-2.0-flash-001" {
		t.Fatalf("unexpected request: %+v", captured)
	}
}
