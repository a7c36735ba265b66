package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Client() == nil {
		t.Fatal("expected non-nil ent client")
	}
	if s.EventRepo() == nil {
		t.Fatal("expected non-nil event repo")
	}
}

func TestAutoMigrateCreatesLedgerTable(t *testing.T) {
	s := openTestStore(t)

	var name string
	err := s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'llm_request_events'",
	).Scan(&name)
	if err != nil {
		t.Fatalf("ledger table missing: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// In-memory databases report journal_mode "memory"; covered by
		// TestFileDatabaseUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Fatalf("PRAGMA %s: %v", tt.pragma, err)
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendLLMRequest(context.Background(), sampleEvent("grade-estimate", "m", true)); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	events, err := s.EventRepo().QueryLLMEvents(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event after reopen, got %d", len(events))
	}
}

func sampleEvent(purpose, model string, ok bool) LLMRequestEventData {
	d := LLMRequestEventData{
		Provider:     "anthropic",
		Model:        model,
		Purpose:      purpose,
		InputTokens:  120,
		OutputTokens: 30,
		LatencyMs:    250,
		Success:      ok,
		RequestBody:  `{"system":"s"}`,
		ResponseBody: `{"final_grade":14}`,
	}
	if !ok {
		d.ErrorMessage = "rate limited"
		d.OutputTokens = 0
		d.ResponseBody = ""
	}
	return d
}

func TestAppendAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	if err := repo.AppendLLMRequest(ctx, sampleEvent("grade-estimate", "claude-haiku-4-5-20251001", true)); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil || len(events) != 1 {
		t.Fatalf("query: %v (%d events)", err, len(events))
	}

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected event")
	}
	if !got.Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, fixed)
	}
	if got.Model != "claude-haiku-4-5-20251001" || got.InputTokens != 120 || !got.Success {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.ResponseBody != `{"final_grade":14}` {
		t.Errorf("response body = %q", got.ResponseBody)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	got, err := s.EventRepo().GetLLMEvent(context.Background(), 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestQueryNewestFirstWithFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	step := 0
	now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Hour)
	}
	t.Cleanup(func() { now = time.Now })

	for _, p := range []string{"grade-estimate", "other", "grade-estimate", "grade-estimate"} {
		if err := repo.AppendLLMRequest(ctx, sampleEvent(p, "m", true)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ID > all[i-1].ID {
			t.Fatalf("not newest first: %d after %d", all[i].ID, all[i-1].ID)
		}
	}

	est, _ := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "grade-estimate", Limit: 2})
	if len(est) != 2 {
		t.Fatalf("expected limit 2, got %d", len(est))
	}
	for _, e := range est {
		if e.Purpose != "grade-estimate" {
			t.Errorf("purpose filter leaked %q", e.Purpose)
		}
	}

	window, _ := repo.QueryLLMEvents(ctx, QueryOpts{From: base.Add(2 * time.Hour), To: base.Add(3 * time.Hour)})
	if len(window) != 2 {
		t.Fatalf("expected 2 events in window, got %d", len(window))
	}
}

func TestUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		sampleEvent("grade-estimate", "gpt-4o-mini", true),
		sampleEvent("grade-estimate", "gpt-4o-mini", true),
		sampleEvent("grade-estimate", "gpt-4o-mini", false),
		sampleEvent("other", "gemini-2.5-flash", true),
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 || byPurpose[0].Purpose != "grade-estimate" {
		t.Fatalf("unexpected purposes: %+v", byPurpose)
	}
	if byPurpose[0].Calls != 3 || byPurpose[0].Failures != 1 || byPurpose[0].InputTokens != 360 {
		t.Errorf("grade-estimate usage = %+v", byPurpose[0])
	}
	if byPurpose[0].AvgLatencyMs != 250 {
		t.Errorf("avg latency = %d", byPurpose[0].AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("unexpected models: %+v", byModel)
	}
	// Failed calls are not billed.
	if byModel[0].Model != "gpt-4o-mini" || byModel[0].Calls != 2 || byModel[0].OutputTokens != 60 {
		t.Errorf("gpt-4o-mini usage = %+v", byModel[0])
	}
}

func TestDefaultDBPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(t.TempDir(), "nested", "x.db")
		t.Setenv("GRADEPATH_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if _, err := os.Stat(filepath.Dir(want)); err != nil {
			t.Errorf("directory not created: %v", err)
		}
	})

	t.Run("xdg", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GRADEPATH_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := filepath.Join(dir, "gradepath", "gradepath.db"); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}
