package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

type capturedRequest struct {
	Path string
	Body map[string]any
}

func chatServer(t *testing.T, status int, reply any) (string, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1", captured
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1760000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 10, "total_tokens": 50},
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	url, captured := chatServer(t, http.StatusOK, chatCompletion(`{"final_grade":9.5,"rationale":"many absences"}`, "stop"))
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-mini", BaseURL: url})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	req := UserPrompt("You estimate grades.", "row")
	req.Schema = estimateSchema()
	req.MaxTokens = 128

	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 50 || resp.StopReason != StopEnd || resp.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if captured.Path != "/v1/chat/completions" {
		t.Fatalf("path = %q", captured.Path)
	}
	if captured.Body["model"] != "gpt-4o-mini" {
		t.Fatalf("alias not resolved: %v", captured.Body["model"])
	}
	msgs := captured.Body["messages"].([]any)
	if len(msgs) != 2 || msgs[0].(map[string]any)["role"] != "system" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
	format := captured.Body["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("response_format = %v", format)
	}
	if format["json_schema"].(map[string]any)["name"] != "test-grade-estimate" {
		t.Fatalf("schema name not sent: %v", format)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	reply := chatCompletion("", "stop")
	reply["choices"] = []any{}
	url, _ := chatServer(t, http.StatusOK, reply)
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: url})

	_, err := p.Generate(context.Background(), Request{})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestOpenAIProvider_Length(t *testing.T) {
	url, _ := chatServer(t, http.StatusOK, chatCompletion(`{"final_`, "length"))
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: url})

	_, err := p.Generate(context.Background(), Request{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
}

func TestOpenAIProvider_ErrorStatuses(t *testing.T) {
	errBody := map[string]any{"error": map[string]any{"message": "busy", "type": "server_error"}}

	url, _ := chatServer(t, http.StatusTooManyRequests, errBody)
	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: url})
	_, err := p.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("429: expected ErrRateLimit, got %T (%v)", err, err)
	}

	url, _ = chatServer(t, http.StatusServiceUnavailable, errBody)
	p, _ = NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: url})
	_, err = p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("503: expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"}); err == nil {
		t.Fatal("expected error")
	}
}
