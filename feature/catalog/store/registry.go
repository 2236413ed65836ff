package store

import (
	"context"
	"fmt"
	"time"

	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
)

// Registry persists the remote file registry.
// It implements reconcile.Mutator keyed by remote id.
type Registry struct {
	db *gorm.DB
}

// NewRegistry creates a file registry store.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// LoadIndex loads every registry row keyed by remote id.
func (r *Registry) LoadIndex(ctx context.Context) (map[string]models.FileEntry, error) {
	var rows []models.FileEntry
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load file registry: %w", err)
	}

	index := make(map[string]models.FileEntry, len(rows))
	for _, row := range rows {
		index[row.RemoteID] = row
	}
	return index, nil
}

// Insert creates registry rows for newly discovered files.
func (r *Registry) Insert(ctx context.Context, entries []models.FileEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(entries, insertBatchSize).Error; err != nil {
		return fmt.Errorf("failed to insert %d registry rows: %w", len(entries), err)
	}
	return nil
}

// Update overwrites the descriptive columns of existing rows. share_url is
// not in the column set, so links survive every crawl.
func (r *Registry) Update(ctx context.Context, entries []models.FileEntry) error {
	now := time.Now().UTC()
	for _, e := range entries {
		e.UpdatedAt = now
		err := r.db.WithContext(ctx).
			Model(&models.FileEntry{}).
			Where("remote_id = ?", e.RemoteID).
			Select(models.ContentColumns).
			Updates(&e).Error
		if err != nil {
			return fmt.Errorf("failed to update registry row %s: %w", e.RemoteID, err)
		}
	}
	return nil
}

// Delete removes rows whose remote ids the last crawl no longer observed.
func (r *Registry) Delete(ctx context.Context, remoteIDs []string) error {
	if len(remoteIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Where("remote_id IN ?", remoteIDs).
		Delete(&models.FileEntry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %d registry rows: %w", len(remoteIDs), err)
	}
	return nil
}

// DeleteBroken removes rows that cannot identify a remote file.
func (r *Registry) DeleteBroken(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("remote_id = '' OR path = ''").
		Delete(&models.FileEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete broken registry rows: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// FetchMissingLinks returns up to limit rows with one of the given extensions
// and no share link, ordered by remote id and starting after afterRemoteID.
func (r *Registry) FetchMissingLinks(ctx context.Context, extensions []string, afterRemoteID string, limit int) ([]models.FileEntry, error) {
	var rows []models.FileEntry
	err := r.db.WithContext(ctx).
		Where("share_url IS NULL").
		Where("extension IN ?", extensions).
		Where("remote_id > ?", afterRemoteID).
		Order("remote_id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows missing links: %w", err)
	}
	return rows, nil
}

// CountMissingLinks counts rows with one of the given extensions and no share link.
func (r *Registry) CountMissingLinks(ctx context.Context, extensions []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FileEntry{}).
		Where("share_url IS NULL").
		Where("extension IN ?", extensions).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count rows missing links: %w", err)
	}
	return count, nil
}

// SetShareURL stores the share link of one row.
func (r *Registry) SetShareURL(ctx context.Context, id uint, url string) error {
	err := r.db.WithContext(ctx).
		Model(&models.FileEntry{}).
		Where("id = ?", id).
		Update("share_url", url).Error
	if err != nil {
		return fmt.Errorf("failed to store share link for row %d: %w", id, err)
	}
	return nil
}

// ListNames returns id, name without extension and extension of every row.
func (r *Registry) ListNames(ctx context.Context) ([]models.FileEntry, error) {
	var rows []models.FileEntry
	err := r.db.WithContext(ctx).
		Select("id", "name_no_ext", "extension").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list registry names: %w", err)
	}
	return rows, nil
}
