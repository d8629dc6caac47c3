package logger

import (
	"context"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// ContextWithRequestID returns a copy of ctx carrying the request id.
// Contexts detached with context.WithoutCancel keep it, so work shared by
// several callers is logged under the id of the caller that started it.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id carried by ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext returns l tagged with the request id carried by ctx, if any.
func FromContext(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return l.With().Str("request_id", id).Logger()
	}
	return l
}
