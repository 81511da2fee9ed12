package uiactions

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/jsamuelsen11/uishell/internal/domain/action"
	"github.com/jsamuelsen11/uishell/internal/domain/trigger"
)

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func propertyParams() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	return parameters
}

// Property: GetTriggerActions returns ids in the order they were attached.
func TestProperty_AttachmentOrderPreserved(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("attachment order is preserved", prop.ForAll(
		func(raw []string) bool {
			want := dedupe(raw)
			svc := New(discardLogger())
			if err := svc.RegisterTrigger(trigger.Trigger{ID: fooTrigger}); err != nil {
				return false
			}
			for _, id := range want {
				if err := svc.AddTriggerAction(fooTrigger, def(id)); err != nil {
					return false
				}
			}
			got, err := svc.GetTriggerActions(fooTrigger)
			return err == nil && slices.Equal(ids(got), want)
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}

// Property: mutations on a fork never change the original's attachments.
func TestProperty_ForkIsolation(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("fork mutations do not leak", prop.ForAll(
		func(base, added []string, detachMask []bool) bool {
			base = dedupe(base)
			svc := New(discardLogger())
			if err := svc.RegisterTrigger(trigger.Trigger{ID: fooTrigger}); err != nil {
				return false
			}
			for _, id := range base {
				if err := svc.AddTriggerAction(fooTrigger, def(id)); err != nil {
					return false
				}
			}

			fork := svc.Fork()
			for _, id := range dedupe(added) {
				if err := fork.AddTriggerAction(fooTrigger, def("fork-"+id)); err != nil {
					return false
				}
			}
			for i, detach := range detachMask {
				if detach && i < len(base) {
					if err := fork.DetachAction(fooTrigger, base[i]); err != nil {
						return false
					}
				}
			}

			got, err := svc.GetTriggerActions(fooTrigger)
			return err == nil && slices.Equal(ids(got), base)
		},
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

// Property: compatible actions are exactly the accepting subset, in
// attachment order.
func TestProperty_CompatibleSubset(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("compatible actions are the accepting subset", prop.ForAll(
		func(verdicts []bool) bool {
			svc := New(discardLogger(), WithMaxConcurrentChecks(3))
			if err := svc.RegisterTrigger(trigger.Trigger{ID: fooTrigger}); err != nil {
				return false
			}

			var want []string
			for i, ok := range verdicts {
				id := fmt.Sprintf("a%03d", i)
				d := def(id)
				d.IsCompatible = func(context.Context, action.Context) (bool, error) { return ok, nil }
				if err := svc.AddTriggerAction(fooTrigger, d); err != nil {
					return false
				}
				if ok {
					want = append(want, id)
				}
			}

			got, err := svc.GetTriggerCompatibleActions(context.Background(), fooTrigger, action.Context{})
			return err == nil && slices.Equal(ids(got), want)
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}

// Property: SortForDisplay yields a permutation with non-increasing order.
func TestProperty_SortForDisplay(t *testing.T) {
	properties := gopter.NewProperties(propertyParams())

	properties.Property("display order is non-increasing", prop.ForAll(
		func(orders []int) bool {
			in := make([]*action.Action, 0, len(orders))
			for i, o := range orders {
				in = append(in, action.New(action.Definition{ID: fmt.Sprintf("a%d", i), Order: o, Execute: noop}))
			}

			out := action.SortForDisplay(in)
			if len(out) != len(in) {
				return false
			}
			for i := 1; i < len(out); i++ {
				if out[i-1].Order < out[i].Order {
					return false
				}
			}
			return slices.Equal(slices.Sorted(slices.Values(ids(out))), slices.Sorted(slices.Values(ids(in))))
		},
		gen.SliceOf(gen.IntRange(-100, 100)),
	))

	properties.TestingRun(t)
}
