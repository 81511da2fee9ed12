package uiactions

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/uishell/internal/app/fanout"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/platform/telemetry"
)

// GetTriggerCompatibleActions evaluates the compatibility predicate of every
// action attached to the trigger and returns those that accept actx, in
// attachment order. Predicates run concurrently. The first predicate error
// cancels the remaining checks and is returned without a partial result.
func (s *Service) GetTriggerCompatibleActions(ctx context.Context, triggerID string, actx action.Context) ([]*action.Action, error) {
	s.mu.RLock()
	attached, err := s.triggerActionsLocked(triggerID)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	verdicts, err := fanout.All(ctx, s.maxChecks, attached, func(ctx context.Context, a *action.Action) (bool, error) {
		return a.IsCompatible(ctx, actx)
	})
	s.recordResolution(ctx, triggerID, start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to resolve compatible actions",
			slog.String("operation", "GetTriggerCompatibleActions"),
			slog.String("trigger_id", triggerID),
			slog.Any("error", err),
		)
		return nil, err
	}

	compatible := make([]*action.Action, 0, len(attached))
	for i, ok := range verdicts {
		if ok {
			compatible = append(compatible, attached[i])
		}
	}
	return compatible, nil
}

func (s *Service) recordResolution(ctx context.Context, triggerID string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	s.metrics.CompatibilityDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(
			telemetry.AttrTriggerID.String(triggerID),
			telemetry.AttrResult.String(result),
		),
	)
}

func executionAttrs(triggerID, actionID, result string) metric.MeasurementOption {
	attrs := []attribute.KeyValue{
		telemetry.AttrActionID.String(actionID),
		telemetry.AttrResult.String(result),
	}
	if triggerID != "" {
		attrs = append(attrs, telemetry.AttrTriggerID.String(triggerID))
	}
	return metric.WithAttributes(attrs...)
}
