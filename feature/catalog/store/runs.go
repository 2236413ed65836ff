package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a run row does not exist or is not in the
// state an operation requires.
var ErrNotFound = errors.New("sync run not found")

// Runs persists the sync run log.
type Runs struct {
	db *gorm.DB
}

// NewRuns creates a run log store.
func NewRuns(db *gorm.DB) *Runs {
	return &Runs{db: db}
}

// Create inserts a new run row and fills in its id.
func (r *Runs) Create(ctx context.Context, run *models.SyncRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create %s run: %w", run.SyncType, err)
	}
	return nil
}

// Finish moves a running row to a terminal status. It returns ErrNotFound
// when the row does not exist or already left the running state.
func (r *Runs) Finish(ctx context.Context, id uint, status models.RunStatus, completedAt time.Time, duration float64, items int, message *string) error {
	res := r.db.WithContext(ctx).
		Model(&models.SyncRun{}).
		Where("id = ? AND status = ?", id, models.StatusRunning).
		Updates(map[string]any{
			"status":           status,
			"completed_at":     completedAt,
			"duration_seconds": duration,
			"items_synced":     items,
			"error_message":    message,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to finish run %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("run %d is not running: %w", id, ErrNotFound)
	}
	return nil
}

// Get loads one run by id.
func (r *Runs) Get(ctx context.Context, id uint) (*models.SyncRun, error) {
	var run models.SyncRun
	err := r.db.WithContext(ctx).First(&run, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %d: %w", id, err)
	}
	return &run, nil
}

// Latest returns the most recent run of a sync type, or nil when there is none.
func (r *Runs) Latest(ctx context.Context, syncType models.SyncType) (*models.SyncRun, error) {
	var runs []models.SyncRun
	err := r.db.WithContext(ctx).
		Where("sync_type = ?", syncType).
		Order("started_at DESC, id DESC").
		Limit(1).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest %s run: %w", syncType, err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// Recent returns up to limit runs, newest first. An empty syncType lists
// every type.
func (r *Runs) Recent(ctx context.Context, syncType models.SyncType, limit int) ([]models.SyncRun, error) {
	q := r.db.WithContext(ctx).Order("started_at DESC, id DESC").Limit(limit)
	if syncType != "" {
		q = q.Where("sync_type = ?", syncType)
	}

	var runs []models.SyncRun
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
