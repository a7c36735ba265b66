package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/gradepath/internal/llm"
	"github.com/abhisek/gradepath/internal/logging"
	"github.com/abhisek/gradepath/internal/mailer"
	"github.com/abhisek/gradepath/internal/predict"
)

// buildPredictor creates the configured predictor. The llm kind opens the
// store so every request lands in the ledger; the returned cleanup closes
// it.
func buildPredictor(ctx context.Context) (predict.Predictor, func(), error) {
	noop := func() {}
	if cfg.Predictor.Kind != predict.KindLLM {
		p, err := predict.New(cfg.Predictor, nil)
		return p, noop, err
	}

	var (
		rec     llm.Recorder
		cleanup = noop
	)
	st, err := openStore()
	if err != nil {
		logging.Warn().Err(err).Msg("LLM requests will not be recorded")
	} else {
		rec = st.EventRepo()
		cleanup = func() { _ = st.Close() }
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, rec)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("LLM provider: %w", err)
	}
	p, err := predict.New(cfg.Predictor, provider)
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	return p, cleanup, nil
}

// interactivePredictor is buildPredictor for long-running surfaces: a
// predictor that cannot be built still starts the UI or server, and each
// prediction reports the failure.
func interactivePredictor(ctx context.Context) (predict.Predictor, func()) {
	p, cleanup, err := buildPredictor(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("predictor unavailable")
		return predict.Unavailable{Err: err}, cleanup
	}
	return p, cleanup
}

func buildMailer(ctx context.Context) mailer.Sender {
	m, err := mailer.NewSES(ctx, cfg.Mail)
	if err != nil {
		logging.Warn().Err(err).Msg("email disabled")
		return nil
	}
	return m
}
