// Package staging applies a sequence of reversible steps as one unit.
//
// Steps are queued on a Batch and applied in order by Commit. When a step
// fails, every step applied before it is reverted in reverse order, so a
// declarative manifest either registers completely or leaves the registries
// as they were:
//
//	b := staging.New()
//	b.Add(staging.StepFunc{Desc: "register trigger", Do: register, Undo: unregister})
//	err := b.Commit(ctx)
package staging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen11/uishell/internal/platform/logging"
)

// ErrAlreadyCommitted is returned when Add or Commit is called on a batch
// that has already been committed.
var ErrAlreadyCommitted = errors.New("staging: batch already committed")

// ErrNilStep is returned when a nil Step is added.
var ErrNilStep = errors.New("staging: nil step")

// Step is a reversible unit of work.
type Step interface {
	// Apply performs the step.
	Apply(ctx context.Context) error

	// Revert undoes a successful Apply. It is only called if Apply
	// returned nil.
	Revert(ctx context.Context) error

	// Description names the step in logs, e.g. "attach action X to Y".
	Description() string
}

// StepFunc adapts a pair of functions to Step. A nil Undo makes the step
// irreversible, which is fine for steps with no lasting effect.
type StepFunc struct {
	Desc string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

// Apply calls Do.
func (f StepFunc) Apply(ctx context.Context) error { return f.Do(ctx) }

// Revert calls Undo when set.
func (f StepFunc) Revert(ctx context.Context) error {
	if f.Undo == nil {
		return nil
	}
	return f.Undo(ctx)
}

// Description returns Desc.
func (f StepFunc) Description() string { return f.Desc }

// Batch is an ordered queue of steps. Add is safe for concurrent use;
// Commit runs once.
type Batch struct {
	mu        sync.Mutex
	steps     []Step
	committed bool
}

// New creates an empty batch.
func New() *Batch {
	return &Batch{}
}

// Add queues step for Commit.
func (b *Batch) Add(step Step) error {
	if step == nil {
		return ErrNilStep
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.committed {
		return ErrAlreadyCommitted
	}
	b.steps = append(b.steps, step)
	return nil
}

// Len returns the number of queued steps.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.steps)
}

// Commit applies every queued step in insertion order. If a step fails, the
// steps applied before it are reverted in reverse order and any revert
// errors are joined with the failure. The batch is committed after the first
// call whatever its outcome.
func (b *Batch) Commit(ctx context.Context) error {
	b.mu.Lock()
	if b.committed {
		b.mu.Unlock()
		return ErrAlreadyCommitted
	}
	b.committed = true
	steps := b.steps
	b.mu.Unlock()

	logger := logging.FromContext(ctx)

	for i, step := range steps {
		logger.DebugContext(ctx, "applying step",
			slog.String("operation", "Batch.Commit"),
			slog.Int("step", i+1),
			slog.Int("total", len(steps)),
			slog.String("description", step.Description()),
		)

		if err := step.Apply(ctx); err != nil {
			logger.ErrorContext(ctx, "step failed, reverting",
				slog.String("operation", "Batch.Commit"),
				slog.Int("failed_step", i+1),
				slog.String("description", step.Description()),
				slog.Any("error", err),
			)
			failed := fmt.Errorf("%s: %w", step.Description(), err)
			return errors.Join(append([]error{failed}, revert(ctx, steps, i-1, logger)...)...)
		}
	}

	return nil
}

// revert undoes steps 0..upTo (inclusive) in reverse order and returns the
// revert failures.
func revert(ctx context.Context, steps []Step, upTo int, logger *slog.Logger) []error {
	var errs []error
	for i := upTo; i >= 0; i-- {
		if err := steps[i].Revert(ctx); err != nil {
			errs = append(errs, fmt.Errorf("reverting %s: %w", steps[i].Description(), err))
			logger.ErrorContext(ctx, "revert failed",
				slog.String("operation", "Batch.Commit"),
				slog.Int("step", i+1),
				slog.String("description", steps[i].Description()),
				slog.Any("error", err),
			)
		}
	}
	return errs
}
