package llm

import (
	"context"
	"fmt"
)

// NewProvider builds the configured provider and wraps it as
// caller -> timeout -> retry -> logging -> provider, so every attempt is
// recorded and cfg.Timeout bounds the whole request.
// The mock provider is returned bare.
func NewProvider(ctx context.Context, cfg Config, rec Recorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderMock:
		return NewMockProvider(), nil
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s provider: %w", cfg.Provider, err)
	}

	if rec != nil {
		base = WithLogging(base, cfg.Provider, rec)
	}
	return WithTimeout(WithRetry(base, cfg.Retry), cfg.Timeout), nil
}
