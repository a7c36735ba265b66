package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/gradepath/internal/logging"
)

// RetryProvider retries transient failures with exponential backoff and
// +/-20% jitter. Invalid responses are retried once; truncation and context
// errors are returned immediately.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetry decorates p with retries.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, cfg: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err          error
		resp         *Response
		retriedShape bool
	)

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case retryNever:
			return nil, err
		case retryOnce:
			if retriedShape {
				return nil, err
			}
			retriedShape = true
		}

		if attempt == r.cfg.MaxAttempts-1 {
			break
		}

		wait := r.wait(attempt, err)
		logging.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Str("model", r.inner.ModelID()).
			Msg("retrying LLM request")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, err
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	base := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	base = math.Min(base, float64(r.cfg.MaxWait))
	base += base * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(base, 0))
}
