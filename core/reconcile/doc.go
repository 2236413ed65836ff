// Package reconcile provides a generic keyed diff between an authoritative
// snapshot and a stored copy, and the application of the resulting plan.
//
// # Architecture
//
// 1. Diff: builds a Plan from two maps keyed by the same natural key. Keys only
//    in the snapshot become inserts, keys on both sides updates, and keys only
//    in the stored state deletes.
//
// 2. Mutator: the store-specific writer. It receives batches of snapshot values
//    (inserts, updates) and stored keys (deletes).
//
// 3. Apply: executes a plan in the order inserts, updates, deletes. There is no
//    surrounding transaction; a failed run leaves earlier batches applied and
//    the next Diff starts from that state, so re-runs converge.
//
// # Usage Example
//
//	plan := reconcile.Diff(snapshot, stored, sameContent)
//	executed, err := reconcile.Apply(ctx, registryMutator, plan, reconcile.Options{BatchSize: 500})
package reconcile
