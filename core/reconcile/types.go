package reconcile

import "context"

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionInsert creates a record only the snapshot has.
	ActionInsert ActionType = "insert"
	// ActionUpdate overwrites a record both sides have.
	ActionUpdate ActionType = "update"
	// ActionDelete removes a record the snapshot no longer has.
	ActionDelete ActionType = "delete"
)

// Plan contains the writes that turn the stored state into the snapshot.
// Inserts and Updates carry snapshot values; Deletes carry stored keys.
// Each list is sorted by key so application order is deterministic.
type Plan[K comparable, V any] struct {
	Inserts []V
	Updates []V
	Deletes []K

	// Summary provides aggregate counts.
	Summary PlanSummary
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// Snapshot is the number of unique keys in the snapshot.
	Snapshot int `json:"snapshot"`
	// Stored is the number of keys in the stored state.
	Stored int `json:"stored"`
	// Inserts counts keys only present in the snapshot.
	Inserts int `json:"inserts"`
	// Updates counts keys present on both sides.
	Updates int `json:"updates"`
	// Changed counts updates whose content differs from the stored record.
	Changed int `json:"changed"`
	// Deletes counts keys only present in the stored state.
	Deletes int `json:"deletes"`
}

// Total is the number of writes the plan performs.
func (s PlanSummary) Total() int {
	return s.Inserts + s.Updates + s.Deletes
}

// Mutator applies planned writes to the stored state.
type Mutator[K comparable, V any] interface {
	Insert(ctx context.Context, items []V) error
	Update(ctx context.Context, items []V) error
	Delete(ctx context.Context, keys []K) error
}

// Options controls plan application.
type Options struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool
	// BatchSize bounds the number of records per write. Zero means one write per action type.
	BatchSize int
}
