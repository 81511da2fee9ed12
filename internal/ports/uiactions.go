package ports

import (
	"context"

	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/trigger"
)

// UIActions defines the service port for the action and trigger registries.
// Implemented by the application layer; called by HTTP handlers and plugins.
// Unknown references return errors matching domain.ErrNotFound and duplicate
// registrations return errors matching domain.ErrConflict.
type UIActions interface {
	// RegisterAction stores the definition and returns its wrapped handle.
	RegisterAction(def action.Definition) (*action.Action, error)

	// UnregisterAction removes a registered action.
	UnregisterAction(id string) error

	// HasAction reports whether an action with the given id is registered.
	HasAction(id string) bool

	// GetAction returns a registered action by id.
	GetAction(id string) (*action.Action, error)

	// Actions returns all registered actions sorted by id.
	Actions() []*action.Action

	// RegisterTrigger stores a trigger.
	RegisterTrigger(t trigger.Trigger) error

	// GetTrigger returns a registered trigger by id.
	GetTrigger(id string) (trigger.Trigger, error)

	// Triggers returns all registered triggers sorted by id.
	Triggers() []trigger.Trigger

	// AddTriggerAction attaches the action to the trigger, registering the
	// definition first when no action with its id exists yet.
	AddTriggerAction(triggerID string, def action.Definition) error

	// AttachAction attaches an already registered action to the trigger.
	AttachAction(triggerID, actionID string) error

	// DetachAction removes the action id from the trigger. Detaching an
	// action that is not attached is a no-op.
	DetachAction(triggerID, actionID string) error

	// GetTriggerActions returns the attached actions in attachment order.
	GetTriggerActions(triggerID string) ([]*action.Action, error)

	// GetTriggerCompatibleActions returns the attached actions whose
	// compatibility predicate passes for actx, in attachment order.
	GetTriggerCompatibleActions(ctx context.Context, triggerID string, actx action.Context) ([]*action.Action, error)

	// ExecuteTriggerActions fires the trigger with actx. See ExecutionResult.
	ExecuteTriggerActions(ctx context.Context, triggerID string, actx action.Context) (*ExecutionResult, error)

	// ExecuteAction runs a single registered action after re-checking its
	// compatibility with actx.
	ExecuteAction(ctx context.Context, actionID string, actx action.Context) error
}

// ExecutionResult describes what happened when a trigger fired. Executed
// lists the ids of actions that ran. When more than one compatible action
// exists and none auto-executes, nothing runs and Candidates holds the
// compatible actions in display order for the user to choose from.
type ExecutionResult struct {
	ExecutionID string
	TriggerID   string
	Executed    []string
	Candidates  []*action.Action
}
