// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL connections (and sqlite
// for local runs and tests) based on the application's configuration.
//
// # Connect
//
// Connect opens the database with SkipDefaultTransaction so every statement is
// committed on its own. The sync pipeline interleaves remote calls with local
// writes and relies on that.
//
// # Schema Inspection
//
// GetTableColumns and RequireColumns inspect tables the pipeline does not own,
// such as the inventory table, before any run reads them.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	err = database.RequireColumns(db, "inventory", "id", "sku")
package database
