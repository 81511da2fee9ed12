package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/dto"
	"github.com/jsamuelsen11/uishell/internal/platform/httpclient"
)

const headerRequestID = dto.HeaderRequestID

// requestIDKey is the context key for storing request IDs within the middleware
// package. httpclient keeps its own key for outbound webhook headers.
type requestIDKey struct{}

// WithRequestID returns a new context with the given request ID stored in it.
// The ID is also stored for httpclient so webhook deliveries made while
// serving the request carry X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	ctx = httpclient.WithRequestID(ctx, id)
	return ctx
}

// RequestIDFromContext extracts the request ID from the context.
// Returns an empty string if no request ID is stored.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestID returns middleware that assigns each request an X-Request-ID. A
// well-formed inbound header is reused; a missing or malformed one is
// replaced by a new UUID. The ID is stored in the request context and echoed
// as a response header, which error bodies repeat.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if !validID(id) {
				id = uuid.NewString()
			}
			w.Header().Set(headerRequestID, id)
			next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
		})
	}
}
