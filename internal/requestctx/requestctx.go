// Package requestctx threads the per-request correlation ID through
// context so handlers and log lines can reference the same request.
package requestctx

import "context"

type contextKey int

const requestIDKey contextKey = iota

// WithRequestID returns a child context carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID, or "" when none was attached.
func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}
