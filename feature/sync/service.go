package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"

	"catalog-sync/core/logger"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/store"
	"catalog-sync/feature/crawl"
	"catalog-sync/feature/links"
	"catalog-sync/feature/runlog"
	"catalog-sync/feature/skumatch"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrUnknownSyncType is returned for a sync type name that does not exist.
var ErrUnknownSyncType = errors.New("unknown sync type")

// CrawlResult is the outcome of a crawl trigger.
type CrawlResult struct {
	ItemsChanged int `json:"items_changed"`
	crawl.Result
}

// LinksTrigger is the outcome of a link provisioning trigger. Result is nil
// when the run was started in the background.
type LinksTrigger struct {
	Started bool
	Missing int64
	Result  *links.Result
}

// Service is the single entry point of every pipeline stage. HTTP handlers
// and CLI commands are thin callers of it.
type Service struct {
	tracker   *runlog.Tracker
	crawler   *crawl.Crawler
	links     *links.Provisioner
	matcher   *skumatch.Matcher
	inventory *store.Inventory
	factory   storage.Factory
	cfg       Config
	logger    *zap.Logger

	// group collapses concurrent triggers of the same sync type in this process.
	group singleflight.Group
	bg    gosync.WaitGroup
}

// NewService wires the stores and stages over db.
func NewService(db *gorm.DB, factory storage.Factory, cfg Config, log *zap.Logger) (*Service, error) {
	inventory, err := store.NewInventory(db, cfg.InventoryTable, cfg.InventoryColumn)
	if err != nil {
		return nil, err
	}
	registry := store.NewRegistry(db)
	mappings := store.NewMappings(db, inventory)

	return &Service{
		tracker:   runlog.NewTracker(store.NewRuns(db), log),
		crawler:   crawl.NewCrawler(registry, cfg.CrawlConfig(), log),
		links:     links.NewProvisioner(registry, mappings, cfg.LinksConfig(), log),
		matcher:   skumatch.NewMatcher(inventory, registry, mappings, cfg.MatchConfig(), log),
		inventory: inventory,
		factory:   factory,
		cfg:       cfg,
		logger:    logger.Component(log, "sync"),
	}, nil
}

// Crawl lists the remote roots with credential and reconciles the registry.
// A dry run computes the diff without writing and is not recorded as a run.
func (s *Service) Crawl(ctx context.Context, credential, operator string, dryRun bool) (*CrawlResult, error) {
	if dryRun {
		client, err := s.factory(credential)
		if err != nil {
			return nil, err
		}
		res, err := s.crawler.Run(ctx, client, reconcile.Options{DryRun: true})
		if err != nil {
			return nil, err
		}
		return &CrawlResult{ItemsChanged: res.Items(), Result: *res}, nil
	}

	v, err := s.run(ctx, models.SyncCrawl, operator, func(ctx context.Context) (int, any, error) {
		client, err := s.factory(credential)
		if err != nil {
			return 0, nil, err
		}
		res, err := s.crawler.Run(ctx, client, reconcile.Options{})
		if err != nil {
			return 0, nil, err
		}
		return res.Items(), &CrawlResult{ItemsChanged: res.Items(), Result: *res}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CrawlResult), nil
}

// ProvisionLinks creates missing share links and waits for the run to finish.
func (s *Service) ProvisionLinks(ctx context.Context, credential, operator string) (*links.Result, error) {
	v, err := s.run(ctx, models.SyncLinks, operator, func(ctx context.Context) (int, any, error) {
		client, err := s.factory(credential)
		if err != nil {
			return 0, nil, err
		}
		res, err := s.links.Run(ctx, client)
		if err != nil {
			return res.LinksCreated, nil, err
		}
		return res.LinksCreated, res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*links.Result), nil
}

// TriggerLinks provisions links synchronously when fewer than the async
// threshold are missing and in the background otherwise. Background
// completion is observable through Status.
func (s *Service) TriggerLinks(ctx context.Context, credential, operator string) (*LinksTrigger, error) {
	missing, err := s.links.MissingCount(ctx)
	if err != nil {
		return nil, err
	}

	if missing < int64(s.cfg.AsyncThreshold) {
		res, err := s.ProvisionLinks(ctx, credential, operator)
		if err != nil {
			return nil, err
		}
		return &LinksTrigger{Missing: missing, Result: res}, nil
	}

	s.logger.Info("Starting link provisioning in background", zap.Int64("missing", missing), zap.String("operator", operator))
	s.Background(ctx, func(ctx context.Context) error {
		_, err := s.ProvisionLinks(ctx, credential, operator)
		return err
	})
	return &LinksTrigger{Started: true, Missing: missing}, nil
}

// GenerateMappings runs the SKU matcher.
func (s *Service) GenerateMappings(ctx context.Context, operator string) (*skumatch.Result, error) {
	v, err := s.run(ctx, models.SyncMapping, operator, func(ctx context.Context) (int, any, error) {
		if err := s.inventory.Check(); err != nil {
			return 0, nil, err
		}
		res, err := s.matcher.Generate(ctx)
		if err != nil {
			return 0, nil, err
		}
		return int(res.MappingsCreated), res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*skumatch.Result), nil
}

// DeleteMappings removes every mapping. The run records the count negated.
func (s *Service) DeleteMappings(ctx context.Context, operator string) (int64, error) {
	v, err := s.runKeyed(ctx, "purge_mappings", models.SyncMapping, operator, func(ctx context.Context) (int, any, error) {
		deleted, err := s.matcher.DeleteAll(ctx)
		if err != nil {
			return 0, nil, err
		}
		return -int(deleted), deleted, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// MissingLinks counts web-displayable files without a share link.
func (s *Service) MissingLinks(ctx context.Context) (int64, error) {
	return s.links.MissingCount(ctx)
}

// Status reports the latest run of a sync type.
func (s *Service) Status(ctx context.Context, syncType string) (*runlog.RunStatus, error) {
	t, ok := models.ParseSyncType(syncType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSyncType, syncType)
	}
	return s.tracker.Status(ctx, t)
}

// Runs lists recent runs, newest first. An empty sync type lists all types
// and a non-positive limit uses the configured default.
func (s *Service) Runs(ctx context.Context, syncType string, limit int) ([]models.SyncRun, error) {
	var t models.SyncType
	if syncType != "" {
		var ok bool
		if t, ok = models.ParseSyncType(syncType); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSyncType, syncType)
		}
	}
	if limit <= 0 {
		limit = s.cfg.RunsLimit
	}
	return s.tracker.Recent(ctx, t, limit)
}

// ForceFail fails a run left running by a crashed process.
func (s *Service) ForceFail(ctx context.Context, runID uint, message string) error {
	return s.tracker.ForceFail(ctx, runID, message)
}

// Background runs fn detached from the caller's cancellation. Errors are
// logged; they are already recorded on the run.
func (s *Service) Background(ctx context.Context, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if err := fn(ctx); err != nil {
			s.logger.Error("Background sync failed", zap.Error(err))
		}
	}()
}

// Wait blocks until every background run has finished.
func (s *Service) Wait() {
	s.bg.Wait()
}

// run executes fn as a tracked run of syncType. Concurrent calls for the
// same operation share one run and its result.
func (s *Service) run(ctx context.Context, syncType models.SyncType, operator string, fn func(ctx context.Context) (int, any, error)) (any, error) {
	return s.runKeyed(ctx, string(syncType), syncType, operator, fn)
}

func (s *Service) runKeyed(ctx context.Context, key string, syncType models.SyncType, operator string, fn func(ctx context.Context) (int, any, error)) (any, error) {
	v, err, shared := s.group.Do(key, func() (any, error) {
		var out any
		_, err := s.tracker.Track(ctx, operator, syncType, func(ctx context.Context) (int, error) {
			items, v, err := fn(ctx)
			out = v
			return items, err
		})
		return out, err
	})
	if shared {
		s.logger.Info("Joined sync run already in progress", zap.String("sync_type", string(syncType)), zap.String("operator", operator))
	}
	return v, err
}
