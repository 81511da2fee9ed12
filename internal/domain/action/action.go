// Package action defines UI actions: named, executable behaviours with an
// optional applicability predicate and display metadata. Actions are
// registered into the ui actions service and attached to triggers.
package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/jsamuelsen11/uishell/internal/domain"
)

// Context is the caller-supplied payload an action is resolved and executed
// against. Keys are defined by the trigger that emits the context.
type Context map[string]any

// Type tags an action with the kind of behaviour it implements
// (e.g. "webhook", "navigate"). The zero value is the untyped action.
type Type string

// Definition is the registration payload for an action. ID and Execute are
// required; every other func field is an optional capability and may be nil.
type Definition struct {
	ID    string
	Type  Type
	Order int

	// Execute performs the action's side effect.
	Execute func(ctx context.Context, actx Context) error

	// IsCompatible reports whether the action applies to actx. A nil
	// predicate means always compatible.
	IsCompatible func(ctx context.Context, actx Context) (bool, error)

	DisplayName        func(actx Context) string
	DisplayNameTooltip func(actx Context) string
	IconType           func(actx Context) string
	Tooltip            func(actx Context) string
	IsDisabled         func(actx Context) bool
	Href               func(ctx context.Context, actx Context) (string, error)
	ShouldAutoExecute  func(ctx context.Context, actx Context) (bool, error)
}

// Validate checks that the definition carries the required fields.
func (d *Definition) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(d.ID) == "" {
		fields["id"] = "must not be empty"
	}
	if d.Execute == nil {
		fields["execute"] = "must be provided"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Action is the registered handle for a Definition. It exposes the
// definition's fields with defaults filled in and resolves optional
// capabilities to their default behaviour when absent.
type Action struct {
	ID    string
	Type  Type
	Order int

	def Definition
}

// New wraps a definition. Order defaults to 0 and Type to the empty type,
// which are the zero values of the definition fields.
func New(def Definition) *Action {
	return &Action{
		ID:    def.ID,
		Type:  def.Type,
		Order: def.Order,
		def:   def,
	}
}

// Definition returns the definition the action was created from.
func (a *Action) Definition() Definition {
	return a.def
}

// Execute runs the action against actx.
func (a *Action) Execute(ctx context.Context, actx Context) error {
	if a.def.Execute == nil {
		return fmt.Errorf("action %q has no executor: %w", a.ID, domain.ErrValidation)
	}
	return a.def.Execute(ctx, actx)
}

// IsCompatible evaluates the compatibility predicate. Actions without a
// predicate are compatible with every context.
func (a *Action) IsCompatible(ctx context.Context, actx Context) (bool, error) {
	if a.def.IsCompatible == nil {
		return true, nil
	}
	return a.def.IsCompatible(ctx, actx)
}

// DisplayName returns the human-readable name, defaulting to "Action: <id>".
func (a *Action) DisplayName(actx Context) string {
	if a.def.DisplayName == nil {
		return "Action: " + a.ID
	}
	return a.def.DisplayName(actx)
}

// DisplayNameTooltip returns the tooltip shown over the display name.
func (a *Action) DisplayNameTooltip(actx Context) string {
	if a.def.DisplayNameTooltip == nil {
		return ""
	}
	return a.def.DisplayNameTooltip(actx)
}

// IconType returns the icon identifier, empty when none.
func (a *Action) IconType(actx Context) string {
	if a.def.IconType == nil {
		return ""
	}
	return a.def.IconType(actx)
}

// Tooltip returns the tooltip shown over a disabled or enabled action.
func (a *Action) Tooltip(actx Context) string {
	if a.def.Tooltip == nil {
		return ""
	}
	return a.def.Tooltip(actx)
}

// IsDisabled reports whether the action is shown but not executable.
func (a *Action) IsDisabled(actx Context) bool {
	if a.def.IsDisabled == nil {
		return false
	}
	return a.def.IsDisabled(actx)
}

// Href returns the link the action navigates to, if any.
func (a *Action) Href(ctx context.Context, actx Context) (string, error) {
	if a.def.Href == nil {
		return "", nil
	}
	return a.def.Href(ctx, actx)
}

// ShouldAutoExecute reports whether the action runs without user selection
// when its trigger fires.
func (a *Action) ShouldAutoExecute(ctx context.Context, actx Context) (bool, error) {
	if a.def.ShouldAutoExecute == nil {
		return false, nil
	}
	return a.def.ShouldAutoExecute(ctx, actx)
}
