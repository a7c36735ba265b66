// Package predict turns a student profile into a predicted final grade.
// The recommendation engine treats the predictor as an opaque oracle.
package predict

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/gradepath/internal/llm"
	"github.com/abhisek/gradepath/internal/profile"
)

// Predictor estimates the final grade (G3, 0–20 nominal) for a profile.
type Predictor interface {
	Predict(ctx context.Context, p profile.Profile) (float64, error)

	// Name identifies the predictor in logs and metrics.
	Name() string
}

// Predictor kinds.
const (
	KindLinear = "linear"
	KindLLM    = "llm"
)

// ErrModelUnavailable wraps failures to read or parse a model artifact.
var ErrModelUnavailable = errors.New("model unavailable")

// ErrNoProvider is returned when the llm predictor is selected without a
// configured LLM provider.
var ErrNoProvider = errors.New("llm predictor needs an LLM provider")

// Config selects and configures the predictor.
type Config struct {
	Kind      string `koanf:"kind"`
	ModelPath string `koanf:"model_path"`
	MaxTokens int    `koanf:"max_tokens"`
}

func DefaultConfig() Config {
	return Config{Kind: KindLinear, MaxTokens: 256}
}

func (c Config) Validate() error {
	switch c.Kind {
	case KindLinear, KindLLM:
		return nil
	default:
		return fmt.Errorf("unknown predictor kind %q (want %s or %s)", c.Kind, KindLinear, KindLLM)
	}
}

// New builds the configured predictor. provider is only used by the llm
// kind and may be nil otherwise.
func New(cfg Config, provider llm.Provider) (Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindLLM:
		if provider == nil {
			return nil, ErrNoProvider
		}
		return NewLLMPredictor(provider, LLMConfig{MaxTokens: cfg.MaxTokens}), nil
	default:
		var (
			m   *LinearModel
			err error
		)
		if cfg.ModelPath == "" {
			m, err = DefaultModel()
		} else {
			m, err = LoadModel(cfg.ModelPath)
		}
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// Unavailable fails every prediction with Err. Interactive surfaces use it
// when the configured predictor cannot be built, so the failure shows up
// where a prediction is requested.
type Unavailable struct {
	Err error
}

func (u Unavailable) Predict(context.Context, profile.Profile) (float64, error) {
	return 0, u.Err
}

func (u Unavailable) Name() string { return "unavailable" }
