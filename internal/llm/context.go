package llm

import (
	"context"
	"log/slog"
)

type purposeKey struct{}

type attrsKey struct{}

// WithPurpose labels requests made with ctx in the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose label, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// WithAttrs adds log attributes (topic, difficulty, ...) that the retry
// and logging decorators attach to their slog records.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := AttrsFrom(ctx)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

// AttrsFrom returns the attributes added with WithAttrs.
func AttrsFrom(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}

// logArgs flattens the context attributes for a slog call.
func logArgs(ctx context.Context, args ...any) []any {
	for _, a := range AttrsFrom(ctx) {
		args = append(args, a)
	}
	return args
}
