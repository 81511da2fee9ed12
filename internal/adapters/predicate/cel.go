// Package predicate compiles declarative compatibility expressions into
// action predicates using CEL. Expressions see the action context as the
// variable "context" and must evaluate to a bool:
//
//	has(context.field) && context.field != ""
package predicate

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/ports"
)

// ContextVariable is the name the action context is bound to.
const ContextVariable = "context"

// DefaultCostLimit caps the evaluation cost of one expression.
const DefaultCostLimit = 10000

var _ ports.PredicateCompiler = (*CELCompiler)(nil)

// CELCompiler implements ports.PredicateCompiler. Programs are cached by
// expression text, so compiling the same expression twice is cheap.
type CELCompiler struct {
	env       *cel.Env
	costLimit uint64

	mu       sync.RWMutex
	prgCache map[string]cel.Program
}

// NewCELCompiler creates a compiler. A zero costLimit uses DefaultCostLimit.
func NewCELCompiler(costLimit uint64) (*CELCompiler, error) {
	env, err := cel.NewEnv(
		cel.Variable(ContextVariable, cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}
	if costLimit == 0 {
		costLimit = DefaultCostLimit
	}
	return &CELCompiler{
		env:       env,
		costLimit: costLimit,
		prgCache:  make(map[string]cel.Program),
	}, nil
}

// Compile parses and checks expr. Syntax errors and non-bool expressions
// return a *domain.ValidationError.
func (c *CELCompiler) Compile(expr string) (ports.Predicate, error) {
	prg, err := c.program(expr)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, actx action.Context) (bool, error) {
		if actx == nil {
			actx = action.Context{}
		}
		out, _, err := prg.ContextEval(ctx, map[string]any{ContextVariable: map[string]any(actx)})
		if err != nil {
			return false, fmt.Errorf("evaluating %q: %w", expr, err)
		}
		val, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf("evaluating %q: result is %s, not bool", expr, out.Type().TypeName())
		}
		return val, nil
	}, nil
}

func (c *CELCompiler) program(expr string) (cel.Program, error) {
	c.mu.RLock()
	prg, hit := c.prgCache[expr]
	c.mu.RUnlock()
	if hit {
		return prg, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prg, hit = c.prgCache[expr]; hit {
		return prg, nil
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, domain.Invalid("isCompatible", issues.Err().Error())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"isCompatible": fmt.Sprintf("must evaluate to bool, got %s", out),
		}}
	}

	p, err := c.env.Program(ast,
		cel.InterruptCheckFrequency(100),
		cel.CostLimit(c.costLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("building program for %q: %w", expr, err)
	}
	c.prgCache[expr] = p
	return p, nil
}

// Cached returns the number of cached programs.
func (c *CELCompiler) Cached() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.prgCache)
}
