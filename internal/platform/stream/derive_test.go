package stream_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen11/uishell/internal/platform/stream"
)

func TestMap(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := stream.NewSubject(2)
	doubled := stream.Map(ctx, src, func(n int) int { return n * 2 })

	assert.Equal(t, 4, doubled.Value())

	src.Next(5)
	assert.Equal(t, 10, doubled.Value(), "derived value is recomputed synchronously")
}

func TestMap_CompletesOnStop(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	src := stream.NewSubject(1)
	out := stream.Map(ctx, src, func(n int) int { return n })

	sub := out.Subscribe()
	<-sub.C()

	cancel()
	_, ok := receive(t, sub.C())
	assert.False(t, ok)

	src.Next(9)
	assert.Equal(t, 1, out.Value(), "completed derived subject no longer follows its source")
}

func TestMap_CompletesWithSource(t *testing.T) {
	t.Parallel()

	src := stream.NewSubject(1)
	out := stream.Map(context.Background(), src, func(n int) int { return n })

	src.Complete()
	_, ok := receive(t, out.Done())
	assert.False(t, ok)
	assert.True(t, out.Completed())
}

func TestCombineLatest2(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appHidden := stream.NewSubject(false)
	forceHidden := stream.NewSubject(false)
	visible := stream.CombineLatest2(ctx, appHidden, forceHidden, func(a, f bool) bool {
		return !a && !f
	})

	assert.True(t, visible.Value())

	forceHidden.Next(true)
	assert.False(t, visible.Value())

	forceHidden.Next(false)
	appHidden.Next(true)
	assert.False(t, visible.Value())

	appHidden.Next(false)
	assert.True(t, visible.Value())
}

func TestChanges(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	a := stream.NewSubject("a")
	b := stream.NewSubject(0)
	changes := stream.Changes(ctx, a, b)

	a.Next("b")
	b.Next(1)
	b.Next(2)
	assert.Equal(t, uint64(3), changes.Value())

	cancel()
	_, ok := receive(t, changes.Done())
	assert.False(t, ok)

	a.Next("c")
	assert.Equal(t, uint64(3), changes.Value())
}
