package sync

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-sync/feature/crawl"
	"catalog-sync/feature/links"
	"catalog-sync/feature/skumatch"
)

// Config holds the pipeline settings.
type Config struct {
	// Roots are the remote folders crawled recursively.
	Roots []string `mapstructure:"roots" default:"/Products"`
	// ExcludedFolders skip any file below a folder whose name contains one of them.
	ExcludedFolders []string `mapstructure:"excluded_folders" default:""`
	// Extensions is the allow-list of file extensions the crawl keeps.
	Extensions []string `mapstructure:"extensions" default:".jpg,.jpeg,.png,.gif,.psd,.tif,.tiff,.ai,.pdf"`
	// WebExtensions are the extensions that get share links and may be primary.
	WebExtensions []string `mapstructure:"web_extensions" default:".jpg,.jpeg,.png,.gif"`
	// ReservedSegments are provider metadata folders that are never crawled.
	ReservedSegments []string `mapstructure:"reserved_segments" default:".dropbox.cache"`
	// HiddenPrefix marks hidden file names.
	HiddenPrefix string `mapstructure:"hidden_prefix" default:"."`

	// BatchSize is the number of rows fetched per link provisioning batch.
	BatchSize int `mapstructure:"batch_size" default:"25"`
	// LinkDelay is the pause after each created link.
	LinkDelay time.Duration `mapstructure:"link_delay" default:"1s"`
	// ErrorBackoff is the pause after a failed link.
	ErrorBackoff time.Duration `mapstructure:"error_backoff" default:"5s"`
	// MaxConsecutiveFailures aborts link provisioning.
	MaxConsecutiveFailures int `mapstructure:"max_consecutive_failures" default:"5"`
	// AsyncThreshold is the missing-link count from which provisioning runs in the background.
	AsyncThreshold int `mapstructure:"async_threshold" default:"100"`

	// PrimaryMarker is the file name token marking the canonical product shot.
	PrimaryMarker string `mapstructure:"primary_marker" default:"6MM"`
	// MinSKULength skips shorter SKUs during matching.
	MinSKULength int `mapstructure:"min_sku_length" default:"3"`
	// InventoryTable and InventoryColumn locate the SKUs.
	InventoryTable  string `mapstructure:"inventory_table" default:"inventory"`
	InventoryColumn string `mapstructure:"inventory_column" default:"sku"`

	// RunsLimit is the default number of runs listed.
	RunsLimit int `mapstructure:"runs_limit" default:"50"`
}

// CrawlConfig returns the crawl settings.
func (c Config) CrawlConfig() crawl.Config {
	return crawl.Config{
		Roots:            c.Roots,
		ExcludedFolders:  c.ExcludedFolders,
		Extensions:       c.Extensions,
		ReservedSegments: c.ReservedSegments,
		HiddenPrefix:     c.HiddenPrefix,
	}
}

// LinksConfig returns the link provisioning settings.
func (c Config) LinksConfig() links.Config {
	return links.Config{
		BatchSize:              c.BatchSize,
		Delay:                  c.LinkDelay,
		ErrorBackoff:           c.ErrorBackoff,
		MaxConsecutiveFailures: c.MaxConsecutiveFailures,
		Extensions:             c.WebExtensions,
	}
}

// MatchConfig returns the SKU matching settings.
func (c Config) MatchConfig() skumatch.Config {
	return skumatch.Config{
		PrimaryMarker: c.PrimaryMarker,
		WebExtensions: c.WebExtensions,
		MinSKULength:  c.MinSKULength,
	}
}

// Validate normalises extension lists to lower-case dotted form and rejects
// settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return errors.New("at least one crawl root is required")
	}
	for _, r := range c.Roots {
		if !strings.HasPrefix(r, "/") {
			return fmt.Errorf("crawl root %q must be absolute", r)
		}
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.MaxConsecutiveFailures <= 0 {
		return fmt.Errorf("max_consecutive_failures must be positive, got %d", c.MaxConsecutiveFailures)
	}
	if c.MinSKULength < 1 {
		return fmt.Errorf("min_sku_length must be at least 1, got %d", c.MinSKULength)
	}
	c.Extensions = normalizeExtensions(c.Extensions)
	c.WebExtensions = normalizeExtensions(c.WebExtensions)
	if len(c.WebExtensions) == 0 {
		return errors.New("at least one web extension is required")
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
