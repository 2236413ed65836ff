package links

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog/models"

	"go.uber.org/zap"
)

var (
	// ErrTooManyFailures aborts a run after too many consecutive per-file failures.
	ErrTooManyFailures = errors.New("too many consecutive share link failures")
	// ErrBatchFailed aborts a run when every file of one batch failed.
	ErrBatchFailed = errors.New("every share link in the batch failed")
)

// Registry is the file registry as the provisioner sees it.
type Registry interface {
	DeleteBroken(ctx context.Context) (int64, error)
	FetchMissingLinks(ctx context.Context, extensions []string, afterRemoteID string, limit int) ([]models.FileEntry, error)
	CountMissingLinks(ctx context.Context, extensions []string) (int64, error)
	SetShareURL(ctx context.Context, id uint, url string) error
}

// Orphans removes mappings that reference missing SKUs or files.
type Orphans interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

// Config controls batching and throttling.
type Config struct {
	BatchSize              int
	Delay                  time.Duration
	ErrorBackoff           time.Duration
	MaxConsecutiveFailures int
	// Extensions are the web-displayable extensions that get links.
	Extensions []string
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Result summarises one provisioning run.
type Result struct {
	LinksCreated int `json:"links_created"`
	// Failed counts files skipped after a per-file error.
	Failed         int   `json:"links_failed"`
	OrphansDeleted int64 `json:"orphans_deleted"`
}

// Provisioner creates public share links for registry rows that lack one.
type Provisioner struct {
	registry Registry
	orphans  Orphans
	cfg      Config
	sleep    Sleeper
	logger   *zap.Logger
}

// NewProvisioner creates a link provisioner.
func NewProvisioner(registry Registry, orphans Orphans, cfg Config, log *zap.Logger) *Provisioner {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = 5
	}
	return &Provisioner{
		registry: registry,
		orphans:  orphans,
		cfg:      cfg,
		sleep:    Sleep,
		logger:   logger.Component(log, "links"),
	}
}

// WithSleeper replaces the throttle, mainly for tests.
func (p *Provisioner) WithSleeper(s Sleeper) *Provisioner {
	p.sleep = s
	return p
}

// MissingCount counts web-displayable rows without a share link.
func (p *Provisioner) MissingCount(ctx context.Context) (int64, error) {
	return p.registry.CountMissingLinks(ctx, p.cfg.Extensions)
}

// Run deletes orphans, then walks every row missing a link in remote id order
// and provisions links one at a time. Rows are visited at most once per run.
//
// An authorization failure aborts at once. Other per-file errors are logged
// and skipped until MaxConsecutiveFailures is reached or a whole batch fails.
// The partial result is returned alongside any error.
func (p *Provisioner) Run(ctx context.Context, client storage.Client) (*Result, error) {
	res := &Result{}

	orphans, err := p.cleanup(ctx)
	if err != nil {
		return res, err
	}
	res.OrphansDeleted = orphans

	after := ""
	consecutive := 0
	for {
		rows, err := p.registry.FetchMissingLinks(ctx, p.cfg.Extensions, after, p.cfg.BatchSize)
		if err != nil {
			return res, err
		}
		if len(rows) == 0 {
			break
		}

		succeeded := 0
		for _, row := range rows {
			after = row.RemoteID

			url, err := p.provision(ctx, client, row)
			if errors.Is(err, storage.ErrUnauthorized) {
				return res, fmt.Errorf("link provisioning aborted: %w", err)
			}
			if err != nil {
				res.Failed++
				consecutive++
				p.logger.Warn("Failed to create share link",
					zap.String("path", row.Path),
					zap.Int("consecutive_failures", consecutive),
					zap.Error(err))
				if consecutive >= p.cfg.MaxConsecutiveFailures {
					return res, fmt.Errorf("%w: %d in a row, last error: %v", ErrTooManyFailures, consecutive, err)
				}
				if err := p.sleep(ctx, p.cfg.ErrorBackoff); err != nil {
					return res, err
				}
				continue
			}

			if err := p.registry.SetShareURL(ctx, row.ID, url); err != nil {
				return res, err
			}
			res.LinksCreated++
			succeeded++
			consecutive = 0

			if err := p.sleep(ctx, p.cfg.Delay); err != nil {
				return res, err
			}
		}

		if succeeded == 0 {
			return res, fmt.Errorf("%w: %d files, %d consecutive failures", ErrBatchFailed, len(rows), consecutive)
		}
		p.logger.Info("Share link batch done",
			zap.Int("batch", len(rows)),
			zap.Int("succeeded", succeeded),
			zap.Int("links_created", res.LinksCreated))
	}

	p.logger.Info("Share link provisioning done",
		zap.Int("links_created", res.LinksCreated),
		zap.Int("links_failed", res.Failed),
		zap.Int64("orphans_deleted", res.OrphansDeleted))
	return res, nil
}

func (p *Provisioner) cleanup(ctx context.Context) (int64, error) {
	broken, err := p.registry.DeleteBroken(ctx)
	if err != nil {
		return 0, err
	}
	mappings, err := p.orphans.DeleteOrphans(ctx)
	if err != nil {
		return broken, err
	}
	if total := mappings + broken; total > 0 {
		p.logger.Info("Deleted orphans", zap.Int64("mappings", mappings), zap.Int64("registry_rows", broken))
	}
	return mappings + broken, nil
}

// provision returns the share URL for one row. An existing link counts as
// success.
func (p *Provisioner) provision(ctx context.Context, client storage.Client, row models.FileEntry) (string, error) {
	url, err := client.CreateSharedLink(ctx, row.Path)
	if err == nil {
		metrics.ObserveLinkAttempt(metrics.LinkCreated)
		return url, nil
	}

	var exists *storage.LinkExistsError
	if errors.As(err, &exists) && exists.URL != "" {
		metrics.ObserveLinkAttempt(metrics.LinkExisting)
		return exists.URL, nil
	}

	metrics.ObserveLinkAttempt(metrics.LinkFailed)
	return "", err
}
