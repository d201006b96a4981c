package facet

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Flag marks every model in all with a boolean attribute: true when the model
// is also in active, false otherwise. The result lists the true group first,
// then the false group, each in the order of all.
//
// Models are compared by identity, so pass the same pointers in both slices.
// Models that cannot be assigned (no Setter) are returned in the false group
// untouched.
func Flag(active, all []Model, flag string) []Model {
	activeSet := mapset.NewThreadUnsafeSet(active...)
	allSet := mapset.NewThreadUnsafeSet(all...)
	trueSet := activeSet.Intersect(allSet)

	var flaggedTrue, flaggedFalse []Model
	for _, m := range all {
		setter, ok := m.(Setter)
		if ok && trueSet.Contains(m) {
			setter.Set(flag, true)
			flaggedTrue = append(flaggedTrue, m)
			continue
		}
		if ok {
			setter.Set(flag, false)
		}
		flaggedFalse = append(flaggedFalse, m)
	}
	return append(flaggedTrue, flaggedFalse...)
}

// OnlyFlagged keeps the items whose model attribute flag equals want.
// Items that are resources are inspected through the model they wrap.
// Returns the collection for chaining.
func (c *Collection) OnlyFlagged(flag string, want bool) *Collection {
	kept := make([]any, 0, len(c.items))
	for _, item := range c.items {
		if flagValue(item, flag) == want {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.syncPaginator()
	return c
}

// flagValue reads a boolean attribute from an item, false when absent.
func flagValue(item any, flag string) bool {
	if u, ok := item.(interface{ Unwrap() any }); ok {
		item = u.Unwrap()
	}
	var v any
	switch m := item.(type) {
	case Getter:
		v, _ = m.Get(flag)
	case map[string]any:
		v = m[flag]
	}
	b, _ := v.(bool)
	return b
}
