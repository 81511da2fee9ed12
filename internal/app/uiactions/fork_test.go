package uiactions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/uishell/internal/domain"
	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/trigger"
)

func triggerActionIDs(t *testing.T, svc *Service, triggerID string) []string {
	t.Helper()
	actions, err := svc.GetTriggerActions(triggerID)
	require.NoError(t, err)
	return ids(actions)
}

// --- Fork ---

func TestService_Fork(t *testing.T) {
	t.Parallel()

	t.Run("returns a new instance", func(t *testing.T) {
		t.Parallel()
		svc1 := New(discardLogger())
		svc2 := svc1.Fork()

		assert.NotSame(t, svc1, svc2)
	})

	t.Run("triggers registered in original are available in both", func(t *testing.T) {
		t.Parallel()
		svc1 := newServiceWithTrigger(t, fooTrigger)
		svc2 := svc1.Fork()

		t1, err := svc1.GetTrigger(fooTrigger)
		require.NoError(t, err)
		t2, err := svc2.GetTrigger(fooTrigger)
		require.NoError(t, err)
		assert.Equal(t, fooTrigger, t1.ID)
		assert.Equal(t, fooTrigger, t2.ID)
	})

	t.Run("triggers registered in fork are not available in original", func(t *testing.T) {
		t.Parallel()
		svc1 := New(discardLogger())
		svc2 := svc1.Fork()

		require.NoError(t, svc2.RegisterTrigger(trigger.Trigger{ID: fooTrigger}))

		_, err := svc1.GetTrigger(fooTrigger)
		require.ErrorIs(t, err, domain.ErrNotFound)
		_, err = svc2.GetTrigger(fooTrigger)
		require.NoError(t, err)
	})

	t.Run("preserves trigger-to-actions mapping", func(t *testing.T) {
		t.Parallel()
		svc1 := newServiceWithTrigger(t, fooTrigger)
		require.NoError(t, svc1.AddTriggerAction(fooTrigger, def("action1")))
		svc2 := svc1.Fork()

		assert.Equal(t, []string{"action1"}, triggerActionIDs(t, svc1, fooTrigger))
		assert.Equal(t, []string{"action1"}, triggerActionIDs(t, svc2, fooTrigger))
	})

	t.Run("new attachments in fork do not appear in original", func(t *testing.T) {
		t.Parallel()
		svc1 := newServiceWithTrigger(t, fooTrigger)
		require.NoError(t, svc1.AddTriggerAction(fooTrigger, def("action1")))
		svc2 := svc1.Fork()

		require.NoError(t, svc2.AddTriggerAction(fooTrigger, def("action2")))

		assert.Len(t, triggerActionIDs(t, svc1, fooTrigger), 1)
		assert.Len(t, triggerActionIDs(t, svc2, fooTrigger), 2)
		assert.False(t, svc1.HasAction("action2"))
	})

	t.Run("new attachments in original do not appear in fork", func(t *testing.T) {
		t.Parallel()
		svc1 := newServiceWithTrigger(t, fooTrigger)
		require.NoError(t, svc1.AddTriggerAction(fooTrigger, def("action1")))
		svc2 := svc1.Fork()

		require.NoError(t, svc1.AddTriggerAction(fooTrigger, def("action2")))

		assert.Len(t, triggerActionIDs(t, svc1, fooTrigger), 2)
		assert.Len(t, triggerActionIDs(t, svc2, fooTrigger), 1)
	})

	t.Run("detaching in fork leaves original intact", func(t *testing.T) {
		t.Parallel()
		svc1 := newServiceWithTrigger(t, fooTrigger)
		require.NoError(t, svc1.AddTriggerAction(fooTrigger, def("action1")))
		require.NoError(t, svc1.AddTriggerAction(fooTrigger, def("action2")))
		svc2 := svc1.Fork()

		require.NoError(t, svc2.DetachAction(fooTrigger, "action1"))

		assert.Equal(t, []string{"action1", "action2"}, triggerActionIDs(t, svc1, fooTrigger))
		assert.Equal(t, []string{"action2"}, triggerActionIDs(t, svc2, fooTrigger))
	})

	t.Run("fork resolves compatibility like the original", func(t *testing.T) {
		t.Parallel()
		svc1 := newServiceWithTrigger(t, fooTrigger)
		d := def("action1")
		d.IsCompatible = acceptsWhen("accept")
		require.NoError(t, svc1.AddTriggerAction(fooTrigger, d))
		svc2 := svc1.Fork()

		got, err := svc2.GetTriggerCompatibleActions(context.Background(), fooTrigger, action.Context{"accept": true})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
