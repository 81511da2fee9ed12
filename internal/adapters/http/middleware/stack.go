package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/uishell/internal/platform/telemetry"
)

// unmatchedRoute labels requests no route matched, keeping span names and
// metric attributes bounded.
const unmatchedRoute = "unmatched"

// Standard returns the global middleware in the order the router applies
// them:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging
//
// Timeout is not part of the stack. The router applies it per route group.
func Standard(logger *slog.Logger, metrics *telemetry.Metrics) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		Recovery(logger),
		RequestID(),
		CorrelationID(),
		OpenTelemetry(metrics),
		Logging(logger),
	}
}

// routePattern returns the chi route pattern the request matched, such as
// /api/v1/triggers/{triggerId}. It is only complete once the router has
// served the request.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

// isUpgrade reports whether r asks to switch protocols, as the chrome stream
// websocket handshake does.
func isUpgrade(r *http.Request) bool {
	return r.Header.Get("Upgrade") != "" && headerHasToken(r.Header, "Connection", "upgrade")
}
