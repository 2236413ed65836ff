package crawl

import (
	"context"
	"fmt"

	"catalog-sync/core/logger"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog/models"

	"go.uber.org/zap"
)

// Registry is the file registry as the crawler sees it.
type Registry interface {
	reconcile.Mutator[string, models.FileEntry]
	LoadIndex(ctx context.Context) (map[string]models.FileEntry, error)
}

// Result summarises one crawl.
type Result struct {
	Inserted int `json:"inserted"`
	// Updated counts every previously known file the crawl saw again.
	Updated int `json:"updated"`
	// Changed counts the updates whose content actually differed.
	Changed int `json:"changed"`
	Deleted int `json:"deleted"`
	DryRun  bool `json:"dry_run,omitempty"`
}

// Items is the run's item count: inserted + updated + deleted.
func (r *Result) Items() int {
	return r.Inserted + r.Updated + r.Deleted
}

// Crawler lists the configured remote roots and reconciles the registry
// against what it finds.
type Crawler struct {
	registry Registry
	filter   *filter
	roots    []string
	logger   *zap.Logger
}

// NewCrawler creates a crawler.
func NewCrawler(registry Registry, cfg Config, log *zap.Logger) *Crawler {
	return &Crawler{
		registry: registry,
		filter:   newFilter(cfg),
		roots:    cfg.Roots,
		logger:   logger.Component(log, "crawl"),
	}
}

// Run snapshots the remote tree and reconciles the registry with it.
// Any listing or write error aborts the crawl; writes already made stay, and
// the next crawl recomputes the diff from current state.
func (c *Crawler) Run(ctx context.Context, client storage.Client, opts reconcile.Options) (*Result, error) {
	snapshot, err := c.Snapshot(ctx, client)
	if err != nil {
		return nil, err
	}

	stored, err := c.registry.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}

	plan := reconcile.Diff(snapshot, stored, func(s, v models.FileEntry) bool {
		return s.SameContent(v)
	})

	c.logger.Info("Crawl plan computed",
		zap.Int("snapshot", plan.Summary.Snapshot),
		zap.Int("stored", plan.Summary.Stored),
		zap.Int("inserts", plan.Summary.Inserts),
		zap.Int("updates", plan.Summary.Updates),
		zap.Int("changed", plan.Summary.Changed),
		zap.Int("deletes", plan.Summary.Deletes),
		zap.Bool("dry_run", opts.DryRun))

	if _, err := reconcile.Apply(ctx, c.registry, plan, opts); err != nil {
		return nil, err
	}

	return &Result{
		Inserted: plan.Summary.Inserts,
		Updated:  plan.Summary.Updates,
		Changed:  plan.Summary.Changed,
		Deleted:  plan.Summary.Deletes,
		DryRun:   opts.DryRun,
	}, nil
}

// Snapshot lists every root exhaustively and returns the accepted files keyed
// by remote id. A file reachable from two roots is kept once.
func (c *Crawler) Snapshot(ctx context.Context, client storage.Client) (map[string]models.FileEntry, error) {
	snapshot := make(map[string]models.FileEntry)
	for _, root := range c.roots {
		seen, kept, err := c.listRoot(ctx, client, root, snapshot)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("Listed root", zap.String("root", root), zap.Int("entries", seen), zap.Int("kept", kept))
	}
	return snapshot, nil
}

func (c *Crawler) listRoot(ctx context.Context, client storage.Client, root string, into map[string]models.FileEntry) (seen, kept int, err error) {
	page, err := client.ListFolder(ctx, root, true)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list %s: %w", root, err)
	}

	for {
		for _, e := range page.Entries {
			seen++
			e = normalize(e)
			if !c.filter.accept(e) {
				continue
			}
			if _, dup := into[e.ID]; dup {
				continue
			}
			into[e.ID] = toEntry(e)
			kept++
		}

		if !page.HasMore {
			return seen, kept, nil
		}
		if err := ctx.Err(); err != nil {
			return seen, kept, err
		}
		page, err = client.ListFolderContinue(ctx, page.Cursor)
		if err != nil {
			return seen, kept, fmt.Errorf("failed to continue listing %s: %w", root, err)
		}
	}
}
