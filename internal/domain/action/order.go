package action

import "slices"

// SortForDisplay returns a copy of actions ordered by Order, highest first.
// Actions with equal order keep their relative position.
func SortForDisplay(actions []*Action) []*Action {
	out := slices.Clone(actions)
	slices.SortStableFunc(out, func(a, b *Action) int {
		switch {
		case a.Order > b.Order:
			return -1
		case a.Order < b.Order:
			return 1
		default:
			return 0
		}
	})
	return out
}
