package skumatch

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"catalog-sync/core/logger"
	"catalog-sync/feature/catalog/models"
	"catalog-sync/feature/catalog/store"

	"go.uber.org/zap"
)

// Config controls matching.
type Config struct {
	// PrimaryMarker is the file name token that marks the canonical product shot.
	PrimaryMarker string
	// WebExtensions are the extensions that may be shown on the web and may be primary.
	WebExtensions []string
	// MinSKULength skips shorter SKUs, which would match too broadly.
	MinSKULength int
}

// Inventory supplies the current SKUs.
type Inventory interface {
	SKUs(ctx context.Context) ([]string, error)
}

// Registry supplies file names.
type Registry interface {
	ListNames(ctx context.Context) ([]models.FileEntry, error)
}

// Mappings persists SKU-to-image mappings.
type Mappings interface {
	DeleteOrphans(ctx context.Context) (int64, error)
	MappedSKUs(ctx context.Context) (map[string]struct{}, error)
	Insert(ctx context.Context, rows []models.SkuImageMapping) (int64, error)
	PrimaryCandidates(ctx context.Context) ([]store.PrimaryCandidate, error)
	SetPrimary(ctx context.Context, ids []uint) error
	DeleteAll(ctx context.Context) (int64, error)
}

// Result summarises one generation run.
type Result struct {
	MappingsCreated   int64 `json:"mappings_created"`
	OrphansDeleted    int64 `json:"orphans_deleted"`
	PrimariesPromoted int   `json:"primaries_promoted"`
}

// Matcher derives SKU-to-image mappings from file names.
type Matcher struct {
	inventory Inventory
	registry  Registry
	mappings  Mappings
	cfg       Config
	scorer    *scorer
	logger    *zap.Logger
}

// NewMatcher creates a matcher.
func NewMatcher(inventory Inventory, registry Registry, mappings Mappings, cfg Config, log *zap.Logger) *Matcher {
	if cfg.MinSKULength <= 0 {
		cfg.MinSKULength = 3
	}
	return &Matcher{
		inventory: inventory,
		registry:  registry,
		mappings:  mappings,
		cfg:       cfg,
		scorer:    newScorer(cfg),
		logger:    logger.Component(log, "skumatch"),
	}
}

// Generate prunes orphans, maps every SKU that has no mapping yet and then
// promotes one primary for each SKU left with several mappings and none
// primary. SKUs that already have mappings are never rescanned.
func (m *Matcher) Generate(ctx context.Context) (*Result, error) {
	res := &Result{}

	orphans, err := m.mappings.DeleteOrphans(ctx)
	if err != nil {
		return res, err
	}
	res.OrphansDeleted = orphans

	rows, err := m.candidates(ctx)
	if err != nil {
		return res, err
	}
	created, err := m.mappings.Insert(ctx, rows)
	if err != nil {
		return res, err
	}
	res.MappingsCreated = created

	promoted, err := m.backfillPrimaries(ctx)
	if err != nil {
		return res, err
	}
	res.PrimariesPromoted = promoted

	m.logger.Info("Mapping generation done",
		zap.Int64("orphans_deleted", res.OrphansDeleted),
		zap.Int64("mappings_created", res.MappingsCreated),
		zap.Int("primaries_promoted", res.PrimariesPromoted))
	return res, nil
}

// DeleteAll removes every mapping so the next Generate rebuilds from scratch.
func (m *Matcher) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := m.mappings.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	m.logger.Warn("Deleted all mappings", zap.Int64("mappings_deleted", deleted))
	return deleted, nil
}

type foldedFile struct {
	id   uint
	name string
	ext  string
}

// candidates scores every unmapped SKU against every registry file.
func (m *Matcher) candidates(ctx context.Context) ([]models.SkuImageMapping, error) {
	skus, err := m.inventory.SKUs(ctx)
	if err != nil {
		return nil, err
	}
	mapped, err := m.mappings.MappedSKUs(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := m.registry.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]foldedFile, len(entries))
	for i, e := range entries {
		files[i] = foldedFile{id: e.ID, name: strings.ToLower(e.NameNoExt), ext: e.Extension}
	}

	slices.Sort(skus)
	var rows []models.SkuImageMapping
	scanned := 0
	for _, sku := range skus {
		if _, ok := mapped[sku]; ok {
			continue
		}
		// Rows keep the inventory value so orphan cleanup still finds it.
		trimmed := strings.TrimSpace(sku)
		if utf8.RuneCountInString(trimmed) < m.cfg.MinSKULength {
			continue
		}
		scanned++

		folded := strings.ToLower(trimmed)
		first := len(rows)
		for _, f := range files {
			matchType, confidence, primary, ok := m.scorer.score(folded, f.name, f.ext)
			if !ok {
				continue
			}
			rows = append(rows, Candidate{
				SKU:        sku,
				FileID:     f.id,
				MatchType:  matchType,
				Confidence: confidence,
				IsPrimary:  primary,
			}.Mapping())
		}
		keepOnePrimary(rows[first:])
	}

	m.logger.Debug("Scanned unmapped SKUs",
		zap.Int("skus", len(skus)),
		zap.Int("scanned", scanned),
		zap.Int("files", len(files)),
		zap.Int("candidates", len(rows)))
	return rows, nil
}

// keepOnePrimary leaves at most one primary among one SKU's new rows: the
// highest-confidence one, earliest first on ties.
func keepOnePrimary(rows []models.SkuImageMapping) {
	best := -1
	for i, r := range rows {
		if r.IsPrimary && (best < 0 || r.Confidence > rows[best].Confidence) {
			best = i
		}
	}
	for i := range rows {
		rows[i].IsPrimary = i == best
	}
}

// backfillPrimaries picks the highest-confidence web-displayable row of each
// SKU that has several mappings and no primary. Ties go to the lowest id.
func (m *Matcher) backfillPrimaries(ctx context.Context) (int, error) {
	candidates, err := m.mappings.PrimaryCandidates(ctx)
	if err != nil {
		return 0, err
	}

	var ids []uint
	done := make(map[string]bool)
	for _, c := range candidates {
		if done[c.SKU] || !m.scorer.isWeb(c.Extension) {
			continue
		}
		done[c.SKU] = true
		ids = append(ids, c.ID)
	}

	if err := m.mappings.SetPrimary(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
