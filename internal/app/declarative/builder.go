// Package declarative turns declarative action specs into executable action
// definitions: compatibility comes from a compiled predicate expression and
// execution is delivered to a webhook.
package declarative

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/manifest"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// Builder builds action definitions from specs.
type Builder struct {
	compiler ports.PredicateCompiler
	webhooks ports.WebhookExecutor
}

// NewBuilder creates a Builder.
func NewBuilder(compiler ports.PredicateCompiler, webhooks ports.WebhookExecutor) *Builder {
	return &Builder{compiler: compiler, webhooks: webhooks}
}

// Definition validates spec, compiles its predicate and returns the action
// definition.
func (b *Builder) Definition(spec manifest.ActionSpec) (action.Definition, error) {
	if err := spec.Validate(); err != nil {
		return action.Definition{}, err
	}

	def := action.Definition{
		ID:    spec.ID,
		Type:  action.Type(spec.Type),
		Order: spec.Order,
	}

	if spec.IsCompatible != "" {
		pred, err := b.compiler.Compile(spec.IsCompatible)
		if err != nil {
			return action.Definition{}, fmt.Errorf("compiling isCompatible of action %q: %w", spec.ID, err)
		}
		def.IsCompatible = pred
	}

	webhookURL := spec.Webhook.URL
	webhooks := b.webhooks
	def.Execute = func(ctx context.Context, actx action.Context) error {
		return webhooks.Deliver(ctx, ports.WebhookRequest{
			URL:       webhookURL,
			ActionID:  spec.ID,
			TriggerID: action.TriggerIDFromContext(ctx),
			Context:   actx,
		})
	}

	if spec.DisplayName != "" {
		def.DisplayName = constant(spec.DisplayName)
	}
	if spec.IconType != "" {
		def.IconType = constant(spec.IconType)
	}
	if spec.Tooltip != "" {
		def.Tooltip = constant(spec.Tooltip)
	}
	if spec.Href != "" {
		href := spec.Href
		def.Href = func(context.Context, action.Context) (string, error) { return href, nil }
	}
	if spec.AutoExecute {
		def.ShouldAutoExecute = func(context.Context, action.Context) (bool, error) { return true, nil }
	}

	return def, nil
}

func constant(s string) func(action.Context) string {
	return func(action.Context) string { return s }
}
