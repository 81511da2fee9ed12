// Package fanout runs a function across a slice of items on a bounded number
// of goroutines, preserving input order in the results.
//
// Two collection modes are offered. Run gathers every outcome independently
// (partial success). All stops at the first failure: remaining work is
// canceled through the context and the first error is returned.
package fanout

import (
	"context"
	"sync"
)

// Result holds the outcome of processing a single item.
// Either Value is populated (on success) or Err is non-nil (on failure).
type Result[R any] struct {
	Value R
	Err   error
}

// Run executes fn for each item using at most maxWorkers concurrent
// goroutines and returns one Result per item in input order.
//
// If ctx is canceled while a goroutine is waiting for a worker slot, that
// item records ctx.Err() and fn is not called for it. Goroutines that already
// hold a slot run to completion. Run blocks until every goroutine returns and
// returns an empty non-nil slice for empty input. maxWorkers below 1 is
// treated as 1.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return []Result[R]{}
	}

	results := make([]Result[R], len(items))
	sem := make(chan struct{}, max(maxWorkers, 1))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = Result[R]{Err: ctx.Err()}
				return
			}

			val, err := fn(ctx, it)
			results[idx] = Result[R]{Value: val, Err: err}
		}(i, item)
	}

	wg.Wait()
	return results
}

// All executes fn for each item like Run but fails fast: the first error
// cancels the context passed to the remaining calls and is returned once all
// goroutines have finished. On success the values are returned in input
// order. Errors caused only by that internal cancellation are never reported
// in place of the original failure.
func All[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	groupCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)

	results := Run(groupCtx, maxWorkers, items, func(c context.Context, it T) (R, error) {
		val, err := fn(c, it)
		if err != nil {
			once.Do(func() {
				firstErr = err
				cancel()
			})
		}
		return val, err
	})

	if firstErr != nil {
		return nil, firstErr
	}
	// A canceled parent leaves items that never ran.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := make([]R, len(results))
	for i, r := range results {
		values[i] = r.Value
	}
	return values, nil
}
