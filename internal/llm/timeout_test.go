package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stallingProvider blocks until its context ends.
type stallingProvider struct{ calls int }

func (s *stallingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	s.calls++
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *stallingProvider) ModelID() string { return "stall" }

func TestWithTimeout_StalledProvider(t *testing.T) {
	inner := &stallingProvider{}
	retry := WithRetry(inner, RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1})
	p := WithTimeout(retry, 50*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := p.Generate(context.Background(), Request{})
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("request was not bounded by the timeout")
	}
	if inner.calls != 1 {
		t.Fatalf("deadline errors must not be retried, got %d calls", inner.calls)
	}
}

func TestWithTimeout_PassesResponses(t *testing.T) {
	p := WithTimeout(NewMockProvider(MockResponse{Content: okEstimate}), time.Second)
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != string(okEstimate) {
		t.Fatalf("unexpected content %s", resp.Content)
	}
	if p.ModelID() != ProviderMock {
		t.Fatalf("ModelID should delegate")
	}
}

func TestWithTimeout_DisabledReturnsInner(t *testing.T) {
	inner := NewMockProvider()
	if p := WithTimeout(inner, 0); p != Provider(inner) {
		t.Fatalf("expected inner provider, got %T", p)
	}
}
