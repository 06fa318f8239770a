package services

import (
	"github.com/sellermetrics/leadstack-go/internal/domain/session"
	"github.com/sellermetrics/leadstack-go/internal/infrastructure/observability/logging"
)

// Variant is one personalized content rendering for a page slot.
type Variant struct {
	Headline     string `json:"headline"`
	CallToAction string `json:"callToAction"`
}

// Fallback catalog keys used when no persona has been determined.
const (
	VariantKeyDefault   = "default"
	VariantKeyReturning = "returning"
)

// VariantCatalog maps persona keys to per-engagement content variants.
type VariantCatalog map[string]map[session.EngagementLevel]Variant

// DefaultVariantCatalog returns the built-in marketing site catalog.
func DefaultVariantCatalog() VariantCatalog {
	return VariantCatalog{
		VariantKeyDefault: {
			session.EngagementLow:    {Headline: "Grow your marketplace business", CallToAction: "Try a free calculator"},
			session.EngagementMedium: {Headline: "See what your margins could be", CallToAction: "Run the profit calculator"},
			session.EngagementHigh:   {Headline: "Ready to scale your store?", CallToAction: "Get your growth report"},
		},
		VariantKeyReturning: {
			session.EngagementLow:    {Headline: "Welcome back", CallToAction: "Pick up where you left off"},
			session.EngagementMedium: {Headline: "Welcome back", CallToAction: "Check your latest numbers"},
			session.EngagementHigh:   {Headline: "You know your numbers", CallToAction: "Talk to a growth specialist"},
		},
	}
}

// PersonalizationService selects content variants for a visitor segment.
// Selection is a pure lookup with guaranteed fallbacks; it never errors,
// a page always gets a variant.
type PersonalizationService struct {
	catalog VariantCatalog
	logger  *logging.ChanneledLogger
}

// NewPersonalizationService creates a personalization service over a
// catalog. A nil catalog falls back to the built-in one; missing
// fallback keys are filled in from the built-in catalog.
func NewPersonalizationService(catalog VariantCatalog, logger *logging.ChanneledLogger) *PersonalizationService {
	if catalog == nil {
		catalog = DefaultVariantCatalog()
	}
	builtin := DefaultVariantCatalog()
	if _, ok := catalog[VariantKeyDefault]; !ok {
		catalog[VariantKeyDefault] = builtin[VariantKeyDefault]
	}
	if _, ok := catalog[VariantKeyReturning]; !ok {
		catalog[VariantKeyReturning] = builtin[VariantKeyReturning]
	}
	return &PersonalizationService{
		catalog: catalog,
		logger:  logger,
	}
}

// SelectVariant resolves the content variant for a segment. With no
// determined persona the segment falls back to the "default" key at low
// engagement and "returning" otherwise.
func (s *PersonalizationService) SelectVariant(segment *session.VisitorSegment) Variant {
	key := VariantKeyDefault
	engagement := session.EngagementLow

	if segment != nil {
		engagement = segment.EngagementLevel
		switch {
		case segment.DeterminedPersonaID != nil && *segment.DeterminedPersonaID != "":
			if _, ok := s.catalog[*segment.DeterminedPersonaID]; ok {
				key = *segment.DeterminedPersonaID
			} else if engagement != session.EngagementLow {
				key = VariantKeyReturning
			}
		case engagement != session.EngagementLow:
			key = VariantKeyReturning
		}
	}

	variants := s.catalog[key]
	if variant, ok := variants[engagement]; ok {
		return variant
	}
	if variant, ok := variants[session.EngagementLow]; ok {
		return variant
	}
	// Catalog constructor guarantees the default key exists.
	return s.catalog[VariantKeyDefault][session.EngagementLow]
}
