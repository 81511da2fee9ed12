package fanout_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/uishell/internal/app/fanout"
)

func TestRun_EmptyItems(t *testing.T) {
	t.Parallel()

	results := fanout.Run(context.Background(), 5, []int{}, func(_ context.Context, _ int) (string, error) {
		t.Fatal("fn should not be called for empty items")
		return "", nil
	})

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRun_PreservesOrderWithPartialFailure(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	items := []int{1, 2, 3, 4}

	results := fanout.Run(context.Background(), 2, items, func(_ context.Context, n int) (int, error) {
		// Later items finish first.
		time.Sleep(time.Duration(len(items)-n) * time.Millisecond)
		if n == 2 {
			return 0, errBoom
		}
		return n * 10, nil
	})

	require.Len(t, results, len(items))
	assert.Equal(t, 10, results[0].Value)
	assert.ErrorIs(t, results[1].Err, errBoom)
	assert.Equal(t, 30, results[2].Value)
	assert.Equal(t, 40, results[3].Value)
}

func TestRun_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	const maxWorkers = 3
	var current, peak atomic.Int32

	items := make([]int, 20)
	fanout.Run(context.Background(), maxWorkers, items, func(_ context.Context, _ int) (struct{}, error) {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		current.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(maxWorkers))
}

func TestRun_ZeroWorkersTreatedAsOne(t *testing.T) {
	t.Parallel()

	results := fanout.Run(context.Background(), 0, []int{1, 2}, func(_ context.Context, n int) (int, error) {
		return n, nil
	})

	require.Len(t, results, 2)
	assert.Equal(t, 2, results[1].Value)
}

func TestRun_CanceledWhileWaitingForSlot(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var once sync.Once

	go func() {
		<-started
		cancel()
	}()

	results := fanout.Run(ctx, 1, []int{0, 1, 2}, func(ctx context.Context, n int) (int, error) {
		once.Do(func() { close(started) })
		<-ctx.Done()
		// Hold the only slot so waiters observe the cancellation.
		time.Sleep(50 * time.Millisecond)
		return n, nil
	})

	var ran, canceled int
	for _, r := range results {
		if errors.Is(r.Err, context.Canceled) {
			canceled++
		} else {
			ran++
		}
	}
	assert.Equal(t, 1, ran)
	assert.Equal(t, 2, canceled)
}

func TestAll_Success(t *testing.T) {
	t.Parallel()

	got, err := fanout.All(context.Background(), 4, []string{"a", "b", "c"}, func(_ context.Context, s string) (string, error) {
		return s + s, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "bb", "cc"}, got)
}

func TestAll_Empty(t *testing.T) {
	t.Parallel()

	got, err := fanout.All(context.Background(), 4, nil, func(_ context.Context, s string) (bool, error) {
		return true, nil
	})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAll_FirstErrorCancelsTheRest(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	got, err := fanout.All(context.Background(), 10, []int{0, 1, 2}, func(ctx context.Context, n int) (int, error) {
		if n == 0 {
			return 0, errBoom
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return n, nil
		}
	})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, errBoom)
}

func TestAll_ParentCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fanout.All(ctx, 1, []int{1, 2}, func(ctx context.Context, n int) (int, error) {
		return n, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
