package store

import (
	"context"
	"fmt"

	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PrimaryCandidate is a mapping row considered by the primary back-fill.
type PrimaryCandidate struct {
	ID         uint
	SKU        string
	Confidence float64
	Extension  string
}

// Mappings persists SKU-to-image mappings.
type Mappings struct {
	db        *gorm.DB
	inventory *Inventory
}

// NewMappings creates a mapping store. inventory scopes orphan pruning.
func NewMappings(db *gorm.DB, inventory *Inventory) *Mappings {
	return &Mappings{db: db, inventory: inventory}
}

// DeleteOrphans removes mappings whose SKU left the inventory or whose file
// left the registry.
func (m *Mappings) DeleteOrphans(ctx context.Context) (int64, error) {
	db := m.db.WithContext(ctx)
	res := db.
		Where("sku NOT IN (?)", m.inventory.skuQuery(m.db.Session(&gorm.Session{NewDB: true}))).
		Or("file_id NOT IN (?)", m.db.Session(&gorm.Session{NewDB: true}).Model(&models.FileEntry{}).Select("id")).
		Delete(&models.SkuImageMapping{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete orphaned mappings: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// MappedSKUs returns the set of SKUs that have at least one mapping.
func (m *Mappings) MappedSKUs(ctx context.Context) (map[string]struct{}, error) {
	var skus []string
	err := m.db.WithContext(ctx).
		Model(&models.SkuImageMapping{}).
		Distinct("sku").
		Pluck("sku", &skus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load mapped SKUs: %w", err)
	}

	set := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		set[sku] = struct{}{}
	}
	return set, nil
}

// Insert creates mapping rows, skipping (sku, file) pairs that already exist.
// It returns the number of rows created.
func (m *Mappings) Insert(ctx context.Context, rows []models.SkuImageMapping) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, insertBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to insert %d mappings: %w", len(rows), res.Error)
	}
	return res.RowsAffected, nil
}

// PrimaryCandidates returns the mappings of every SKU that has two or more
// mappings and none marked primary, ordered by SKU, confidence descending and id.
func (m *Mappings) PrimaryCandidates(ctx context.Context) ([]PrimaryCandidate, error) {
	db := m.db.WithContext(ctx)

	needing := m.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.SkuImageMapping{}).
		Select("sku").
		Group("sku").
		Having("COUNT(*) >= 2 AND SUM(CASE WHEN is_primary THEN 1 ELSE 0 END) = 0")

	var rows []PrimaryCandidate
	err := db.Table("sku_image_mappings AS m").
		Select("m.id AS id, m.sku AS sku, m.confidence AS confidence, f.extension AS extension").
		Joins("JOIN file_registry AS f ON f.id = m.file_id").
		Where("m.sku IN (?)", needing).
		Order("m.sku ASC, m.confidence DESC, m.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load primary candidates: %w", err)
	}
	return rows, nil
}

// SetPrimary marks the given mapping rows as primary.
func (m *Mappings) SetPrimary(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := m.db.WithContext(ctx).
		Model(&models.SkuImageMapping{}).
		Where("id IN ?", ids).
		Update("is_primary", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark %d mappings primary: %w", len(ids), err)
	}
	return nil
}

// DeleteAll removes every mapping row and returns the count removed.
func (m *Mappings) DeleteAll(ctx context.Context) (int64, error) {
	res := m.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.SkuImageMapping{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete mappings: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListBySKU returns the mappings of one SKU ordered by id.
func (m *Mappings) ListBySKU(ctx context.Context, sku string) ([]models.SkuImageMapping, error) {
	var rows []models.SkuImageMapping
	err := m.db.WithContext(ctx).Where("sku = ?", sku).Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mappings for %s: %w", sku, err)
	}
	return rows, nil
}
