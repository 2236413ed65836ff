package runlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/store"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a run does not exist or is no longer running.
var ErrNotFound = store.ErrNotFound

// Store is the persistence the tracker needs.
type Store interface {
	Create(ctx context.Context, run *models.SyncRun) error
	Finish(ctx context.Context, id uint, status models.RunStatus, completedAt time.Time, duration float64, items int, message *string) error
	Get(ctx context.Context, id uint) (*models.SyncRun, error)
	Latest(ctx context.Context, syncType models.SyncType) (*models.SyncRun, error)
	Recent(ctx context.Context, syncType models.SyncType, limit int) ([]models.SyncRun, error)
}

// RunStatus summarises the latest run of one sync type.
type RunStatus struct {
	IsRunning bool       `json:"is_running"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Operator  *string    `json:"operator,omitempty"`
	RunID     *uint      `json:"run_id,omitempty"`
}

// Tracker records the lifecycle of sync runs.
type Tracker struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	// types remembers the sync type of runs started by this tracker.
	types sync.Map
}

// NewTracker creates a run tracker.
func NewTracker(store Store, log *zap.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger.Component(log, "runlog"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Start inserts a running row and returns its id and start time.
func (t *Tracker) Start(ctx context.Context, operator string, syncType models.SyncType) (uint, time.Time, error) {
	run := &models.SyncRun{
		SyncType:  syncType,
		Operator:  operator,
		Status:    models.StatusRunning,
		StartedAt: t.now(),
	}
	if err := t.store.Create(ctx, run); err != nil {
		return 0, time.Time{}, err
	}
	t.types.Store(run.ID, syncType)
	t.logger.Info("Sync run started",
		zap.Uint("run_id", run.ID),
		zap.String("sync_type", string(syncType)),
		zap.String("operator", operator))
	return run.ID, run.StartedAt, nil
}

// Complete moves a run to success with its item count.
func (t *Tracker) Complete(ctx context.Context, runID uint, startedAt time.Time, itemsSynced int) error {
	return t.finish(ctx, runID, t.typeOf(runID), startedAt, models.StatusSuccess, itemsSynced, nil)
}

// Fail moves a run to failed with an error message.
func (t *Tracker) Fail(ctx context.Context, runID uint, startedAt time.Time, message string) error {
	return t.finish(ctx, runID, t.typeOf(runID), startedAt, models.StatusFailed, 0, &message)
}

// ForceFail fails a run the system lost track of. The stored start time is kept
// and used for the duration.
func (t *Tracker) ForceFail(ctx context.Context, runID uint, message string) error {
	run, err := t.store.Get(ctx, runID)
	if err != nil {
		return err
	}
	if run.Status != models.StatusRunning {
		return fmt.Errorf("run %d is %s: %w", runID, run.Status, ErrNotFound)
	}
	t.logger.Warn("Force failing sync run", zap.Uint("run_id", runID), zap.String("message", message))
	return t.finish(ctx, runID, run.SyncType, run.StartedAt, models.StatusFailed, 0, &message)
}

// Status reports whether the latest run of a type is still running.
func (t *Tracker) Status(ctx context.Context, syncType models.SyncType) (*RunStatus, error) {
	run, err := t.store.Latest(ctx, syncType)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return &RunStatus{}, nil
	}
	return &RunStatus{
		IsRunning: run.Status == models.StatusRunning,
		StartedAt: &run.StartedAt,
		Operator:  &run.Operator,
		RunID:     &run.ID,
	}, nil
}

// Recent lists up to limit runs, newest first. An empty type lists all types.
func (t *Tracker) Recent(ctx context.Context, syncType models.SyncType, limit int) ([]models.SyncRun, error) {
	return t.store.Recent(ctx, syncType, limit)
}

// Track runs fn inside a tracked run. The run completes with fn's item count
// or fails with its error message; a panic in fn is recorded as a failure.
// fn's error is always returned to the caller.
func (t *Tracker) Track(ctx context.Context, operator string, syncType models.SyncType, fn func(ctx context.Context) (int, error)) (items int, err error) {
	runID, startedAt, err := t.Start(ctx, operator, syncType)
	if err != nil {
		return 0, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s run panicked: %v", syncType, r)
			items = 0
		}

		if err != nil {
			if ferr := t.finish(context.WithoutCancel(ctx), runID, syncType, startedAt, models.StatusFailed, 0, strPtr(err.Error())); ferr != nil {
				t.logger.Error("Failed to record failed run", zap.Uint("run_id", runID), zap.Error(ferr))
			}
			return
		}

		if ferr := t.finish(context.WithoutCancel(ctx), runID, syncType, startedAt, models.StatusSuccess, items, nil); ferr != nil {
			err = ferr
		}
	}()

	return fn(ctx)
}

func (t *Tracker) typeOf(runID uint) models.SyncType {
	if v, ok := t.types.Load(runID); ok {
		return v.(models.SyncType)
	}
	return "unknown"
}

func (t *Tracker) finish(ctx context.Context, runID uint, syncType models.SyncType, startedAt time.Time, status models.RunStatus, items int, message *string) error {
	now := t.now()
	duration := now.Sub(startedAt).Seconds()
	if err := t.store.Finish(ctx, runID, status, now, duration, items, message); err != nil {
		return err
	}
	t.types.Delete(runID)
	metrics.ObserveRun(string(syncType), string(status), duration, items)

	fields := []zap.Field{
		zap.Uint("run_id", runID),
		zap.String("status", string(status)),
		zap.Float64("duration_seconds", duration),
		zap.Int("items_synced", items),
	}
	if message != nil {
		t.logger.Warn("Sync run failed", append(fields, zap.String("error", *message))...)
	} else {
		t.logger.Info("Sync run completed", fields...)
	}
	return nil
}

// IsNotFound reports whether err is a not found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func strPtr(s string) *string {
	return &s
}
