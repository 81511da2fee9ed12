package uiactions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// ExecuteTriggerActions fires the trigger with actx.
//
// Every compatible action that asks to auto-execute is run in attachment
// order. Without auto-executing actions a single compatible action is run
// directly, while several are returned as display-ordered candidates and
// nothing runs. A trigger with no compatible action is a not-found error.
func (s *Service) ExecuteTriggerActions(ctx context.Context, triggerID string, actx action.Context) (*ports.ExecutionResult, error) {
	compatible, err := s.GetTriggerCompatibleActions(ctx, triggerID, actx)
	if err != nil {
		return nil, err
	}
	if len(compatible) == 0 {
		return nil, &domain.NotFoundError{
			Message: fmt.Sprintf("No compatible actions found for trigger [triggerId = %s].", triggerID),
		}
	}

	result := &ports.ExecutionResult{
		ExecutionID: uuid.NewString(),
		TriggerID:   triggerID,
		Executed:    []string{},
		Candidates:  []*action.Action{},
	}

	var auto []*action.Action
	for _, a := range compatible {
		ok, err := a.ShouldAutoExecute(ctx, actx)
		if err != nil {
			return nil, fmt.Errorf("checking auto-execute for action %q: %w", a.ID, err)
		}
		if ok {
			auto = append(auto, a)
		}
	}

	switch {
	case len(auto) > 0:
		for _, a := range auto {
			if err := s.run(ctx, triggerID, a, actx); err != nil {
				return nil, err
			}
			result.Executed = append(result.Executed, a.ID)
		}
	case len(compatible) == 1:
		if err := s.run(ctx, triggerID, compatible[0], actx); err != nil {
			return nil, err
		}
		result.Executed = append(result.Executed, compatible[0].ID)
	default:
		result.Candidates = action.SortForDisplay(compatible)
	}

	s.logger.InfoContext(ctx, "trigger executed",
		slog.String("trigger_id", triggerID),
		slog.String("execution_id", result.ExecutionID),
		slog.Int("executed", len(result.Executed)),
		slog.Int("candidates", len(result.Candidates)),
	)
	return result, nil
}

// ExecuteAction runs a single registered action after confirming it is
// still compatible with actx. An incompatible context is a validation error.
func (s *Service) ExecuteAction(ctx context.Context, actionID string, actx action.Context) error {
	a, err := s.GetAction(actionID)
	if err != nil {
		return err
	}

	ok, err := a.IsCompatible(ctx, actx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to check action compatibility",
			slog.String("operation", "ExecuteAction"),
			slog.String("action_id", actionID),
			slog.Any("error", err),
		)
		return err
	}
	if !ok {
		return &domain.ValidationError{Fields: map[string]string{
			"context": fmt.Sprintf("action %s is not compatible with the supplied context", actionID),
		}}
	}

	return s.run(ctx, "", a, actx)
}

func (s *Service) run(ctx context.Context, triggerID string, a *action.Action, actx action.Context) error {
	if triggerID != "" {
		ctx = action.WithTriggerID(ctx, triggerID)
	}
	if err := a.Execute(ctx, actx); err != nil {
		s.metrics.ActionExecutionTotal.Add(ctx, 1, executionAttrs(triggerID, a.ID, "error"))
		s.logger.ErrorContext(ctx, "action execution failed",
			slog.String("operation", "ExecuteAction"),
			slog.String("trigger_id", triggerID),
			slog.String("action_id", a.ID),
			slog.Any("error", err),
		)
		return fmt.Errorf("executing action %q: %w", a.ID, err)
	}

	s.metrics.ActionExecutionTotal.Add(ctx, 1, executionAttrs(triggerID, a.ID, "success"))
	return nil
}
