package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/abhisek/gradepath/internal/logging"
	"github.com/abhisek/gradepath/internal/store"
)

// Recorder persists one LLM request. store.EventRepo satisfies it.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// privatePurposes carry a student record in the request and a predicted
// grade in the response. Only usage metadata is recorded for them.
var privatePurposes = map[string]bool{
	PurposeGradeEstimate: true,
}

// LoggingProvider records every request, successful or not.
type LoggingProvider struct {
	inner    Provider
	provider string
	rec      Recorder
}

// WithLogging decorates p so each call is written to rec. provider is the
// provider name stored alongside the model.
func WithLogging(p Provider, provider string, rec Recorder) Provider {
	return &LoggingProvider{inner: p, provider: provider, rec: rec}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	purpose := PurposeFrom(ctx)
	keepBodies := !privatePurposes[purpose]

	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if keepBodies {
		data.RequestBody = renderRequest(req)
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if keepBodies {
			data.ResponseBody = string(resp.Content)
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// A ledger failure never fails the request.
	if recErr := l.rec.AppendLLMRequest(ctx, data); recErr != nil {
		logging.Warn().Err(recErr).Str("purpose", data.Purpose).Msg("failed to record LLM request")
	}

	logging.Debug().
		Str("provider", l.provider).
		Str("model", data.Model).
		Str("purpose", data.Purpose).
		Int64("latency_ms", data.LatencyMs).
		Bool("success", data.Success).
		Msg("LLM request")

	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// renderRequest is the human-readable request body kept in the ledger.
func renderRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
