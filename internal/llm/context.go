package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	targetKey  contextKey = "llm_target"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithTarget names the course or lesson a request generates content for.
func WithTarget(ctx context.Context, target string) context.Context {
	return context.WithValue(ctx, targetKey, target)
}

// TargetFrom returns the target set by WithTarget, or "".
func TargetFrom(ctx context.Context) string {
	v, _ := ctx.Value(targetKey).(string)
	return v
}
