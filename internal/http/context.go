package http

import "context"

type contextKey string

const (
	requestIDContextKey contextKey = "gamehaven/request-id"
	clientIPContextKey  contextKey = "gamehaven/client-ip"
)

// RequestIDFromContext extracts the request identifier from the context when available.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDContextKey).(string); ok {
		return value
	}
	return ""
}

// ClientIPFromContext extracts the client IP recorded by the request
// middleware, if any.
func ClientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(clientIPContextKey).(string); ok {
		return value
	}
	return ""
}
