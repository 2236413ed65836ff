package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	Key  string
	Size int
}

func sameSize(stored int, snap record) bool { return stored == snap.Size }

func TestDiff_Partitions(t *testing.T) {
	snapshot := map[string]record{
		"a": {Key: "a", Size: 1},
		"b": {Key: "b", Size: 2},
		"c": {Key: "c", Size: 30},
	}
	stored := map[string]int{
		"b": 2,
		"c": 3,
		"d": 4,
	}

	plan := Diff(snapshot, stored, sameSize)

	assert.Equal(t, []record{{Key: "a", Size: 1}}, plan.Inserts)
	assert.Equal(t, []record{{Key: "b", Size: 2}, {Key: "c", Size: 30}}, plan.Updates)
	assert.Equal(t, []string{"d"}, plan.Deletes)

	assert.Equal(t, PlanSummary{Snapshot: 3, Stored: 3, Inserts: 1, Updates: 2, Changed: 1, Deletes: 1}, plan.Summary)
	assert.Equal(t, 4, plan.Summary.Total())
}

func TestDiff_IdenticalStateHasNoChanges(t *testing.T) {
	snapshot := map[string]record{"a": {Key: "a", Size: 1}, "b": {Key: "b", Size: 2}}
	stored := map[string]int{"a": 1, "b": 2}

	plan := Diff(snapshot, stored, sameSize)

	assert.Empty(t, plan.Inserts)
	assert.Empty(t, plan.Deletes)
	assert.Len(t, plan.Updates, 2)
	assert.Zero(t, plan.Summary.Changed)
}

func TestDiff_NilComparatorCountsEveryUpdate(t *testing.T) {
	plan := Diff(map[string]record{"a": {Key: "a"}}, map[string]int{"a": 0}, nil)
	assert.Equal(t, 1, plan.Summary.Changed)
}

func TestDiff_EmptySnapshotDeletesEverything(t *testing.T) {
	plan := Diff(map[string]record{}, map[string]int{"z": 1, "y": 2}, sameSize)
	assert.Equal(t, []string{"y", "z"}, plan.Deletes)
	assert.Empty(t, plan.Inserts)
	assert.Empty(t, plan.Updates)
}
