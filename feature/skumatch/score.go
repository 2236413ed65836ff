package skumatch

import (
	"strings"

	"catalog-sync/feature/catalog/models"
)

// Confidence levels, ordered by match strength.
const (
	ConfidenceExact   = 1.0
	ConfidenceMarker  = 0.8
	ConfidenceContain = 0.5
	ConfidenceNonWeb  = 0.3
)

// FileRef is the part of a registry row the scorer reads.
type FileRef struct {
	ID        uint
	NameNoExt string
	Extension string
}

// Candidate is a scored (SKU, file) pair.
type Candidate struct {
	SKU        string
	FileID     uint
	MatchType  models.MatchType
	Confidence float64
	IsPrimary  bool
}

// Mapping converts the candidate into a mapping row.
func (c Candidate) Mapping() models.SkuImageMapping {
	return models.SkuImageMapping{
		SKU:        c.SKU,
		FileID:     c.FileID,
		MatchType:  c.MatchType,
		Confidence: c.Confidence,
		IsPrimary:  c.IsPrimary,
	}
}

// scorer holds Config folded for comparisons.
type scorer struct {
	marker string
	web    map[string]struct{}
}

func newScorer(cfg Config) *scorer {
	s := &scorer{
		marker: strings.ToLower(cfg.PrimaryMarker),
		web:    make(map[string]struct{}, len(cfg.WebExtensions)),
	}
	for _, ext := range cfg.WebExtensions {
		s.web[strings.ToLower(ext)] = struct{}{}
	}
	return s
}

func (s *scorer) isWeb(ext string) bool {
	_, ok := s.web[strings.ToLower(ext)]
	return ok
}

// score rates a lower-cased file name against a lower-cased SKU.
func (s *scorer) score(sku, name, ext string) (models.MatchType, float64, bool, bool) {
	if !containsToken(name, sku) {
		return "", 0, false, false
	}

	matchType := models.MatchContains
	if name == sku {
		matchType = models.MatchExact
	}

	if !s.isWeb(ext) {
		return matchType, ConfidenceNonWeb, false, true
	}

	marked := s.marker != "" && strings.Contains(name, s.marker)
	switch {
	case matchType == models.MatchExact:
		return matchType, ConfidenceExact, marked, true
	case marked:
		return matchType, ConfidenceMarker, true, true
	default:
		return matchType, ConfidenceContain, false, true
	}
}

// Score rates one file for one SKU. It reports false when the file name does
// not contain the SKU as a whole token.
//
// Only a web-displayable file whose name carries the primary marker is primary
// by itself. A lone exact match without the marker stays non-primary.
func Score(sku string, file FileRef, cfg Config) (Candidate, bool) {
	matchType, confidence, primary, ok := newScorer(cfg).score(
		strings.ToLower(sku), strings.ToLower(file.NameNoExt), file.Extension)
	if !ok {
		return Candidate{}, false
	}
	return Candidate{
		SKU:        sku,
		FileID:     file.ID,
		MatchType:  matchType,
		Confidence: confidence,
		IsPrimary:  primary,
	}, true
}
