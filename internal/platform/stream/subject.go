// Package stream provides latest-value observable state for services that
// expose reactive getters. A Subject always holds a current value; readers
// either poll it with Value or subscribe for changes.
//
// Delivery to subscribers is conflating: each subscription buffers at most
// one pending value and a publish replaces an undelivered one, so a slow
// reader sees the most recent state and never blocks the publisher.
//
//	s := stream.NewSubject(false)
//	sub := s.Subscribe()
//	defer sub.Unsubscribe()
//	s.Next(true)
//	v := <-sub.C() // true (the initial false was replaced)
//
// Derived subjects (Map, CombineLatest2) recompute synchronously when a
// source changes and complete when their stop context is done.
package stream

import (
	"context"
	"sync"
)

// Subject is a multi-subscriber holder of a current value. The zero value is
// not usable; create subjects with NewSubject.
type Subject[T any] struct {
	mu        sync.Mutex
	value     T
	subs      map[*Subscription[T]]struct{}
	observers map[*observer[T]]struct{}
	completed bool
	done      chan struct{}
}

type observer[T any] struct {
	fn func(T)
}

// NewSubject creates a subject holding initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value:     initial,
		subs:      make(map[*Subscription[T]]struct{}),
		observers: make(map[*observer[T]]struct{}),
		done:      make(chan struct{}),
	}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Next publishes v. It returns false, leaving the value unchanged, once the
// subject has completed.
func (s *Subject[T]) Next(v T) bool {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return false
	}
	s.value = v
	for sub := range s.subs {
		sub.offer(v)
	}
	obs := s.observerList()
	s.mu.Unlock()

	for _, o := range obs {
		o.fn(v)
	}
	return true
}

// Update publishes fn applied to the current value. The read and write happen
// under the subject's lock, so concurrent updates are not lost.
func (s *Subject[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	if s.completed {
		s.mu.Unlock()
		return false
	}
	v := fn(s.value)
	s.value = v
	for sub := range s.subs {
		sub.offer(v)
	}
	obs := s.observerList()
	s.mu.Unlock()

	for _, o := range obs {
		o.fn(v)
	}
	return true
}

// Subscribe returns a subscription whose channel first yields the current
// value and then every later value. On a completed subject the channel is
// already closed.
func (s *Subject[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{
		ch:      make(chan T, 1),
		done:    make(chan struct{}),
		subject: s,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		sub.close()
		return sub
	}
	sub.ch <- s.value
	s.subs[sub] = struct{}{}
	return sub
}

// Watch subscribes until ctx is done. The returned channel closes when ctx is
// done or the subject completes.
func (s *Subject[T]) Watch(ctx context.Context) <-chan T {
	sub := s.Subscribe()
	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.done:
		}
	}()
	return sub.C()
}

// Observe registers fn to run synchronously after every published value. It
// does not run for the current value. The returned func removes fn.
func (s *Subject[T]) Observe(fn func(T)) (cancel func()) {
	o := &observer[T]{fn: fn}

	s.mu.Lock()
	if !s.completed {
		s.observers[o] = struct{}{}
	}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, o)
		s.mu.Unlock()
	}
}

// Complete terminates the subject: every subscription channel is closed,
// observers are dropped and later calls to Next are ignored. Complete is
// idempotent.
func (s *Subject[T]) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return
	}
	s.completed = true
	for sub := range s.subs {
		sub.close()
	}
	clear(s.subs)
	clear(s.observers)
	close(s.done)
}

// Completed reports whether Complete has been called.
func (s *Subject[T]) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Done returns a channel closed when the subject completes.
func (s *Subject[T]) Done() <-chan struct{} {
	return s.done
}

// observerList copies the observer set. Callers hold s.mu.
func (s *Subject[T]) observerList() []*observer[T] {
	if len(s.observers) == 0 {
		return nil
	}
	obs := make([]*observer[T], 0, len(s.observers))
	for o := range s.observers {
		obs = append(obs, o)
	}
	return obs
}

// Subscription is a single reader's view of a Subject.
type Subscription[T any] struct {
	ch      chan T
	done    chan struct{}
	subject *Subject[T]
}

// C returns the delivery channel. It is closed on Unsubscribe or when the
// subject completes.
func (sub *Subscription[T]) C() <-chan T {
	return sub.ch
}

// Unsubscribe stops delivery and closes the channel. Safe to call more than
// once and after the subject completed.
func (sub *Subscription[T]) Unsubscribe() {
	s := sub.subject
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[sub]; !ok {
		return
	}
	delete(s.subs, sub)
	sub.close()
}

// offer replaces any undelivered value with v. Callers hold the subject lock,
// which makes the publisher the only writer, so the send cannot block.
func (sub *Subscription[T]) offer(v T) {
	select {
	case <-sub.ch:
	default:
	}
	sub.ch <- v
}

// close closes the channels. Callers hold the subject lock.
func (sub *Subscription[T]) close() {
	close(sub.ch)
	close(sub.done)
}
