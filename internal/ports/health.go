package ports

import "context"

// HealthChecker is a component that reports on readiness: the webhook
// executor, the preference store, the chrome service and the plugin host.
type HealthChecker interface {
	// Name identifies the component in readiness output. Registering a
	// second checker under the same name replaces the first.
	Name() string

	// HealthCheck returns nil when the component can serve. It must honour
	// ctx's deadline.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry collects checkers for the readiness endpoint.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every checker and returns the results keyed by name.
	// A nil value means healthy.
	CheckAll(ctx context.Context) map[string]error
}
