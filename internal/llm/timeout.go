package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutProvider puts a deadline on each logical request. Wrapped around
// RetryProvider it bounds every attempt and backoff together.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout decorates p with a per-request deadline. A non-positive
// timeout returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.inner.Generate(ctx, req)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("LLM request timed out after %s: %w", t.timeout, err)
	}
	return resp, err
}

func (t *TimeoutProvider) ModelID() string { return t.inner.ModelID() }
