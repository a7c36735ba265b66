package llm

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/gradepath/internal/store"
)

type memRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (m *memRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return m.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	rec := &memRecorder{}
	mock := NewMockProvider(MockResponse{Content: okEstimate, Usage: Usage{InputTokens: 120, OutputTokens: 30, TotalTokens: 150}})
	p := WithLogging(mock, ProviderMock, rec)

	req := UserPrompt("You estimate grades.", "student row")
	req.Schema = estimateSchema()
	ctx := WithPurpose(context.Background(), "calibration")

	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}

	ev := rec.events[0]
	if ev.Provider != ProviderMock || ev.Model != ProviderMock || ev.Purpose != "calibration" {
		t.Fatalf("unexpected identity fields: %+v", ev)
	}
	if !ev.Success || ev.ErrorMessage != "" {
		t.Fatalf("expected success: %+v", ev)
	}
	if ev.InputTokens != 120 || ev.OutputTokens != 30 {
		t.Fatalf("tokens not recorded: %+v", ev)
	}
	if ev.ResponseBody != string(okEstimate) {
		t.Fatalf("response body = %q", ev.ResponseBody)
	}
	for _, want := range []string{"[system]", "You estimate grades.", "[user]", "student row", "[schema: test-grade-estimate]"} {
		if !strings.Contains(ev.RequestBody, want) {
			t.Fatalf("request body missing %q:\n%s", want, ev.RequestBody)
		}
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	rec := &memRecorder{}
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}})
	p := WithLogging(mock, ProviderOpenAI, rec)

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error to pass through")
	}
	ev := rec.events[0]
	if ev.Success || !strings.Contains(ev.ErrorMessage, "slow down") || ev.Purpose != PurposeUnknown {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestLoggingProvider_RecorderFailureIsIgnored(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Content: okEstimate}), ProviderMock, rec)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("recorder failure must not fail the request: %v", err)
	}
	if p.ModelID() != ProviderMock {
		t.Fatalf("ModelID should delegate")
	}
}

func TestLoggingProvider_GradeEstimateKeepsUsageOnly(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	mock := NewMockProvider(MockResponse{Content: okEstimate, Usage: Usage{InputTokens: 480, OutputTokens: 22, TotalTokens: 502}})
	p := WithLogging(mock, ProviderMock, st.EventRepo())

	req := UserPrompt("You estimate grades.", "- absences (Absences): 37")
	req.Schema = estimateSchema()
	ctx := WithPurpose(context.Background(), PurposeGradeEstimate)
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := st.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Purpose != PurposeGradeEstimate || !ev.Success {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.InputTokens != 480 || ev.OutputTokens != 22 {
		t.Fatalf("usage not recorded: %+v", ev)
	}
	if ev.RequestBody != "" {
		t.Errorf("student record stored: %q", ev.RequestBody)
	}
	if ev.ResponseBody != "" {
		t.Errorf("predicted grade stored: %q", ev.ResponseBody)
	}
}
