package cmd

import (
	"fmt"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog/store"
	syncfeature "catalog-sync/feature/sync"

	"go.uber.org/zap"
)

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *syncfeature.Service
}

// bootstrap loads configuration, connects to the database, migrates the
// owned tables and builds the sync service.
func bootstrap() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		return nil, err
	}

	svc, err := syncfeature.NewService(db, storage.NewFactory(cfg.Storage), cfg.Sync, l)
	if err != nil {
		return nil, fmt.Errorf("failed to build sync service: %w", err)
	}

	return &app{cfg: cfg, logger: l, service: svc}, nil
}
