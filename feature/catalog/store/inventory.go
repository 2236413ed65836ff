package store

import (
	"context"
	"fmt"

	"catalog-sync/core/database"

	"gorm.io/gorm"
)

// Inventory reads SKUs from the externally owned inventory table.
type Inventory struct {
	db     *gorm.DB
	table  string
	column string
}

// NewInventory creates a read-only inventory store over table.column.
func NewInventory(db *gorm.DB, table, column string) (*Inventory, error) {
	if err := validIdentifier("table", table); err != nil {
		return nil, err
	}
	if err := validIdentifier("column", column); err != nil {
		return nil, err
	}
	return &Inventory{db: db, table: table, column: column}, nil
}

// Check verifies the inventory table exists with the configured SKU column.
func (i *Inventory) Check() error {
	return database.RequireColumns(i.db, i.table, i.column)
}

// SKUs returns every distinct non-empty SKU.
func (i *Inventory) SKUs(ctx context.Context) ([]string, error) {
	var skus []string
	err := i.skuQuery(i.db.WithContext(ctx)).Pluck(i.column, &skus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory SKUs: %w", err)
	}
	return skus, nil
}

// skuQuery selects the distinct non-empty SKUs; it doubles as a subquery.
func (i *Inventory) skuQuery(db *gorm.DB) *gorm.DB {
	return db.Table(i.table).
		Distinct(i.column).
		Where(i.column + " IS NOT NULL").
		Where(i.column + " <> ''")
}
