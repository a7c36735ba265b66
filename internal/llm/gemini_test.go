package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func geminiServer(t *testing.T, status int, reply any) (*GeminiProvider, *string) {
	t.Helper()
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "g-key", Model: "gemini-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	return p, &path
}

func geminiReply(text, finish string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
			"finishReason": finish,
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 60, "candidatesTokenCount": 12, "totalTokenCount": 72},
	}
}

func TestGeminiProvider_StructuredOutput(t *testing.T) {
	p, path := geminiServer(t, http.StatusOK, geminiReply(`{"final_grade":16.4,"rationale":"excellent trend"}`, "STOP"))

	req := UserPrompt("You estimate grades.", "row")
	req.Schema = estimateSchema()
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 72 || resp.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.Contains(*path, "gemini-2.5-flash:generateContent") {
		t.Fatalf("unexpected path %q", *path)
	}
}

func TestGeminiProvider_MaxTokens(t *testing.T) {
	p, _ := geminiServer(t, http.StatusOK, geminiReply(`{"final`, "MAX_TOKENS"))
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
}

func TestGeminiProvider_ServerError(t *testing.T) {
	p, _ := geminiServer(t, http.StatusInternalServerError, map[string]any{
		"error": map[string]any{"code": 500, "message": "internal", "status": "INTERNAL"},
	})
	_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(estimateSchema().Definition)

	if s.Type != "OBJECT" {
		t.Fatalf("type = %s", s.Type)
	}
	grade := s.Properties["final_grade"]
	if grade == nil || grade.Type != "NUMBER" {
		t.Fatalf("final_grade = %+v", grade)
	}
	if grade.Minimum == nil || *grade.Minimum != 0 || grade.Maximum == nil || *grade.Maximum != 20 {
		t.Fatalf("bounds not translated: %+v", grade)
	}
	if got := s.Properties["confidence"].Enum; len(got) != 3 {
		t.Fatalf("enum = %v", got)
	}
	if len(s.Required) != 2 {
		t.Fatalf("required = %v", s.Required)
	}

	arr := geminiSchema(map[string]any{"type": "array", "items": map[string]any{"type": "integer"}, "required": []string{"x"}})
	if arr.Type != "ARRAY" || arr.Items.Type != "INTEGER" || len(arr.Required) != 1 {
		t.Fatalf("array schema = %+v", arr)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Fatal("expected error")
	}
}
