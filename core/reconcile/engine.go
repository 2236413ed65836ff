package reconcile

import (
	"cmp"
	"slices"
)

// Diff partitions snapshot against stored by key.
//
// A key only in snapshot becomes an insert, a key on both sides an update and a
// key only in stored a delete. same reports whether a stored record already
// matches its snapshot value; it only feeds Summary.Changed and may be nil,
// in which case every update counts as changed.
func Diff[K cmp.Ordered, S, V any](snapshot map[K]V, stored map[K]S, same func(S, V) bool) *Plan[K, V] {
	plan := &Plan[K, V]{}

	for _, key := range sortedKeys(snapshot) {
		value := snapshot[key]
		existing, ok := stored[key]
		if !ok {
			plan.Inserts = append(plan.Inserts, value)
			continue
		}
		plan.Updates = append(plan.Updates, value)
		if same == nil || !same(existing, value) {
			plan.Summary.Changed++
		}
	}

	for _, key := range sortedKeys(stored) {
		if _, ok := snapshot[key]; !ok {
			plan.Deletes = append(plan.Deletes, key)
		}
	}

	plan.Summary.Snapshot = len(snapshot)
	plan.Summary.Stored = len(stored)
	plan.Summary.Inserts = len(plan.Inserts)
	plan.Summary.Updates = len(plan.Updates)
	plan.Summary.Deletes = len(plan.Deletes)

	return plan
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
