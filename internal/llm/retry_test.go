package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

var okEstimate = json.RawMessage(`{"final_grade":14,"rationale":"ok"}`)

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

func TestRetry_FirstAttempt(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: okEstimate})
	resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != string(okEstimate) || mock.CallCount() != 1 {
		t.Fatalf("content=%s calls=%d", resp.Content, mock.CallCount())
	}
}

func TestRetry_RecoversFromOutage(t *testing.T) {
	mock := NewMockProvider(down(), down(), MockResponse{Content: okEstimate})
	if _, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_GivesUp(t *testing.T) {
	mock := NewMockProvider(down(), down(), down(), MockResponse{Content: okEstimate})
	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected last error to surface, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_TruncationIsFinal(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{}}, MockResponse{Content: okEstimate})
	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected no retry, got %d calls", mock.CallCount())
	}
}

func TestRetry_RejectionIsFinal(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRequestRejected{Status: 400, Err: errors.New("bad schema")}}, MockResponse{Content: okEstimate})
	if _, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected rejection to surface")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected no retry, got %d calls", mock.CallCount())
	}
}

func TestRetry_InvalidResponseOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("not json")}}
	mock := NewMockProvider(bad, bad, MockResponse{Content: okEstimate})
	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error after second invalid response")
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_CancelledContext(t *testing.T) {
	mock := NewMockProvider(down(), MockResponse{Content: okEstimate})
	cfg := fastRetry()
	cfg.InitialWait = time.Second
	cfg.MaxWait = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, cfg).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_RetryAfter(t *testing.T) {
	r := &RetryProvider{cfg: fastRetry()}
	wait := r.wait(0, &ErrRateLimit{RetryAfter: 42 * time.Millisecond})
	if wait != 42*time.Millisecond {
		t.Fatalf("expected RetryAfter to win, got %s", wait)
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := &RetryProvider{cfg: RetryConfig{MaxAttempts: 10, InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}}
	for attempt := 0; attempt < 10; attempt++ {
		wait := r.wait(attempt, errors.New("x"))
		if wait > 1200*time.Millisecond {
			t.Fatalf("attempt %d: wait %s exceeds cap plus jitter", attempt, wait)
		}
		if wait < 0 {
			t.Fatalf("attempt %d: negative wait", attempt)
		}
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: okEstimate})
	p := WithRetry(mock, RetryConfig{})
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != ProviderMock {
		t.Fatalf("ModelID should delegate, got %q", p.ModelID())
	}
}
