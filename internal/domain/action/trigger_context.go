package action

import "context"

type triggerKey struct{}

// WithTriggerID returns a context recording the trigger that caused an
// execution. Executors that forward executions downstream read it back with
// TriggerIDFromContext.
func WithTriggerID(ctx context.Context, triggerID string) context.Context {
	return context.WithValue(ctx, triggerKey{}, triggerID)
}

// TriggerIDFromContext returns the trigger id stored by WithTriggerID, or
// an empty string for executions not caused by a trigger.
func TriggerIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(triggerKey{}).(string)
	return id
}
