package ports

import (
	"context"

	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/manifest"
)

// PreferenceStore defines the client port for small per-user preference
// values such as the nav drawer lock flag. Implemented by the storage
// adapters (in-memory and Redis).
type PreferenceStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// WebhookRequest is the payload a webhook-backed action sends when it runs.
type WebhookRequest struct {
	URL       string
	ActionID  string
	TriggerID string
	Context   action.Context
}

// WebhookExecutor defines the client port that delivers webhook action
// executions to their downstream endpoints.
type WebhookExecutor interface {
	// Deliver posts the request. Returns domain.ErrUnavailable when the
	// endpoint fails or the circuit breaker is open.
	Deliver(ctx context.Context, req WebhookRequest) error
}

// Predicate is a compiled compatibility predicate.
type Predicate func(ctx context.Context, actx action.Context) (bool, error)

// PredicateCompiler defines the client port that turns declarative
// compatibility expressions into predicates.
type PredicateCompiler interface {
	// Compile parses and type-checks expr. Returns domain.ErrValidation for
	// malformed expressions.
	Compile(expr string) (Predicate, error)
}

// ManifestSource defines the client port that supplies declarative plugin
// manifests. Implemented by the YAML file loader.
type ManifestSource interface {
	// Load reads every manifest. Malformed documents return
	// domain.ErrValidation naming the source.
	Load(ctx context.Context) ([]manifest.Manifest, error)
}
