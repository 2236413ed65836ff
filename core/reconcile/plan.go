package reconcile

import (
	"context"
	"fmt"
)

// Apply executes a plan: inserts, then updates, then deletes.
//
// Writes are unconditional and not wrapped in a transaction. On error the
// writes already executed stay applied and executed reports how many records
// they covered; recomputing the plan from current state makes a retry converge.
func Apply[K comparable, V any](ctx context.Context, m Mutator[K, V], plan *Plan[K, V], opts Options) (executed int, err error) {
	if opts.DryRun {
		return 0, nil
	}

	n, err := applyBatches(ctx, plan.Inserts, opts.BatchSize, m.Insert)
	executed += n
	if err != nil {
		return executed, fmt.Errorf("failed to apply %s: %w", ActionInsert, err)
	}

	n, err = applyBatches(ctx, plan.Updates, opts.BatchSize, m.Update)
	executed += n
	if err != nil {
		return executed, fmt.Errorf("failed to apply %s: %w", ActionUpdate, err)
	}

	n, err = applyBatches(ctx, plan.Deletes, opts.BatchSize, m.Delete)
	executed += n
	if err != nil {
		return executed, fmt.Errorf("failed to apply %s: %w", ActionDelete, err)
	}

	return executed, nil
}

func applyBatches[T any](ctx context.Context, items []T, size int, write func(context.Context, []T) error) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if size <= 0 {
		size = len(items)
	}

	done := 0
	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		end := min(start+size, len(items))
		if err := write(ctx, items[start:end]); err != nil {
			return done, err
		}
		done += end - start
	}
	return done, nil
}
