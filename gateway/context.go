package gateway

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a correlation identifier to ctx. The authorization
// transport forwards it as the X-Request-Id header; when absent, a fresh
// UUID is generated per request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
