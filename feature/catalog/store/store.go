package store

import (
	"fmt"
	"regexp"

	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
)

// insertBatchSize bounds the rows per INSERT statement.
const insertBatchSize = 500

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Migrate creates or updates the tables this service owns.
// The inventory table is owned elsewhere and is only inspected.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.FileEntry{}, &models.SkuImageMapping{}, &models.SyncRun{}); err != nil {
		return fmt.Errorf("failed to migrate sync tables: %w", err)
	}
	return nil
}

func validIdentifier(kind, name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid %s name %q", kind, name)
	}
	return nil
}
