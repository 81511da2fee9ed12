// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/uishell/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/uishell/internal/adapters/http/middleware"
)

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Health   *handlers.HealthHandler
	Triggers *handlers.TriggerHandler
	Actions  *handlers.ActionHandler
	Chrome   *handlers.ChromeHandler
	Stream   *handlers.StreamHandler
}

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is applied globally in the order given. A positive
// requestTimeout bounds every API route except the long-lived chrome stream.
func NewRouter(h Handlers, requestTimeout time.Duration, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", h.Health.Liveness)
	r.Get("/health/ready", h.Health.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/chrome/stream", h.Stream.Stream)

		r.Group(func(r chi.Router) {
			if requestTimeout > 0 {
				r.Use(middleware.Timeout(requestTimeout))
			}

			// Triggers and their attachments.
			r.Get("/triggers", h.Triggers.ListTriggers)
			r.Post("/triggers", h.Triggers.RegisterTrigger)
			r.Get("/triggers/{triggerId}", h.Triggers.GetTrigger)
			r.Get("/triggers/{triggerId}/actions", h.Triggers.GetTriggerActions)
			r.Post("/triggers/{triggerId}/actions", h.Triggers.AttachAction)
			r.Delete("/triggers/{triggerId}/actions/{actionId}", h.Triggers.DetachAction)
			r.Post("/triggers/{triggerId}/compatible-actions", h.Triggers.CompatibleActions)
			r.Post("/triggers/{triggerId}/execute", h.Triggers.Execute)

			// Actions.
			r.Get("/actions", h.Actions.ListActions)
			r.Post("/actions", h.Actions.RegisterAction)
			r.Get("/actions/{actionId}", h.Actions.GetAction)
			r.Delete("/actions/{actionId}", h.Actions.UnregisterAction)
			r.Post("/actions/{actionId}/execute", h.Actions.Execute)

			// Chrome state.
			r.Get("/chrome", h.Chrome.GetChrome)
			r.Put("/chrome/visibility", h.Chrome.SetVisibility)
			r.Put("/chrome/header-variant", h.Chrome.SetHeaderVariant)
			r.Put("/chrome/app-title", h.Chrome.SetAppTitle)
			r.Put("/chrome/breadcrumbs", h.Chrome.SetBreadcrumbs)
			r.Put("/chrome/badge", h.Chrome.SetBadge)
			r.Put("/chrome/nav-drawer-lock", h.Chrome.SetNavDrawerLock)
			r.Put("/chrome/current-app", h.Chrome.SetCurrentApp)
			r.Put("/chrome/current-nav-group", h.Chrome.SetCurrentNavGroup)
			r.Put("/chrome/help-support-url", h.Chrome.SetHelpSupportURL)
		})
	})

	return r
}
