package llm

import (
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"final_grade":13.4,"rationale":"G2 trend","confidence":"high"}`, false},
		{"optional omitted", `{"final_grade":0,"rationale":"none"}`, false},
		{"missing required", `{"final_grade":12}`, true},
		{"wrong type", `{"final_grade":"twelve","rationale":"x"}`, true},
		{"above maximum", `{"final_grade":20.5,"rationale":"x"}`, true},
		{"bad enum", `{"final_grade":10,"rationale":"x","confidence":"certain"}`, true},
		{"extra property", `{"final_grade":10,"rationale":"x","tier":"good"}`, true},
		{"malformed", `{final_grade:}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(estimateSchema(), []byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invalid *ErrInvalidResponse
				if !errors.As(err, &invalid) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
				if string(invalid.Content) != tt.raw {
					t.Fatalf("content not preserved: %s", invalid.Content)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, []byte(`not even json`)); err != nil {
		t.Fatalf("nil schema must pass, got %v", err)
	}
}

func TestValidateResponse_CachesCompiledSchema(t *testing.T) {
	s := estimateSchema()
	s.Name = "cache-roundtrip"
	if err := validateResponse(s, []byte(`{"final_grade":1,"rationale":"a"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := schemaCache.Load("cache-roundtrip"); !ok {
		t.Fatal("compiled schema not cached")
	}
}

func TestValidateResponse_BadSchema(t *testing.T) {
	s := &Schema{Name: "broken-schema", Definition: map[string]any{"type": 42}}
	err := validateResponse(s, []byte(`{}`))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse for uncompilable schema, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	var out struct {
		FinalGrade float64 `json:"final_grade"`
	}
	if err := Decode(&Response{Content: okEstimate}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FinalGrade != 14 {
		t.Fatalf("got %v", out.FinalGrade)
	}
	if err := Decode(nil, &out); err == nil {
		t.Fatal("expected error for nil response")
	}
	if err := Decode(&Response{Content: []byte(`[`)}, &out); err == nil {
		t.Fatal("expected error for bad JSON")
	}
}
