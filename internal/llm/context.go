package llm

import "context"

type purposeKey struct{}

// Purpose labels recorded with every request.
const (
	PurposeGradeEstimate = "grade-estimate"
	PurposeUnknown       = "unknown"
)

// WithPurpose tags ctx with the reason for an LLM call, for the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
