package stream

import (
	"context"
	"sync"
)

// Map derives a subject holding fn(src.Value()). It recomputes whenever src
// publishes and completes when stop is done or src completes.
func Map[T, R any](stop context.Context, src *Subject[T], fn func(T) R) *Subject[R] {
	out := NewSubject(fn(src.Value()))
	var mu sync.Mutex
	recompute := func() {
		mu.Lock()
		defer mu.Unlock()
		out.Next(fn(src.Value()))
	}
	link(stop, out, []func(){src.Observe(func(T) { recompute() })}, src.Done())
	return out
}

// CombineLatest2 derives a subject holding fn applied to the latest values of
// a and b. It recomputes whenever either source publishes and completes when
// stop is done or either source completes.
func CombineLatest2[A, B, R any](stop context.Context, a *Subject[A], b *Subject[B], fn func(A, B) R) *Subject[R] {
	out := NewSubject(fn(a.Value(), b.Value()))
	var mu sync.Mutex
	recompute := func() {
		mu.Lock()
		defer mu.Unlock()
		out.Next(fn(a.Value(), b.Value()))
	}
	cancels := []func(){
		a.Observe(func(A) { recompute() }),
		b.Observe(func(B) { recompute() }),
	}
	link(stop, out, cancels, a.Done(), b.Done())
	return out
}

// Changes returns a subject that publishes an incrementing counter each time
// any of the given sources publish. It lets callers react to a group of
// heterogeneous subjects with one observer. Completes when stop is done.
func Changes(stop context.Context, sources ...Observable) *Subject[uint64] {
	out := NewSubject[uint64](0)
	cancels := make([]func(), 0, len(sources))
	for _, src := range sources {
		cancels = append(cancels, src.onChange(func() {
			out.Update(func(n uint64) uint64 { return n + 1 })
		}))
	}
	link(stop, out, cancels)
	return out
}

// Observable is the type-erased view of a Subject used by Changes.
type Observable interface {
	onChange(fn func()) (cancel func())
}

func (s *Subject[T]) onChange(fn func()) func() {
	return s.Observe(func(T) { fn() })
}

// link completes out and removes its source observers when stop is done or
// any of the given source done channels closes.
func link[R any](stop context.Context, out *Subject[R], cancels []func(), sourcesDone ...<-chan struct{}) {
	teardown := func() {
		for _, cancel := range cancels {
			cancel()
		}
		out.Complete()
	}

	for _, done := range sourcesDone {
		go func(done <-chan struct{}) {
			select {
			case <-done:
				teardown()
			case <-out.Done():
			}
		}(done)
	}

	stopAfter := context.AfterFunc(stop, teardown)
	go func() {
		<-out.Done()
		stopAfter()
	}()
}
