package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// TraceIDContextKey is the key for storing the trace ID in context
const TraceIDContextKey contextKey = "trace_id"

// WithTraceID returns a context carrying a fresh trace ID
func WithTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, uuid.NewString())
}

// TraceID extracts the trace ID from context, empty when absent
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(TraceIDContextKey).(string); ok {
		return v
	}
	return ""
}
