package reduce

import "fmt"

// Compact removes the items a plan evicts, in place and in one pass, keeping
// the survivors in their original order. items must be aligned with the
// candidates the plan was built from. The tail past the returned length is
// zeroed so evicted items can be collected.
func Compact[T any](items []T, plan *Plan) []T {
	if len(items) != len(plan.Decisions) {
		panic(fmt.Sprintf("compact: %d items for %d decisions", len(items), len(plan.Decisions)))
	}
	j := 0
	for i := range items {
		if plan.Decisions[i].Evicted() {
			continue
		}
		items[j] = items[i]
		j++
	}
	clear(items[j:])
	return items[:j]
}
